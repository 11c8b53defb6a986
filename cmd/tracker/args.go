package main

import (
	"strconv"
	"strings"

	"github.com/KirkDiggler/combat-tracker/internal/entities/combat"
	"github.com/KirkDiggler/combat-tracker/internal/errors"
)

// parseRow turns a 1-based row number as shown by "show" into a roster index
func parseRow(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, errors.InvalidArgumentf("row must be a number from 1, got %q", arg)
	}
	return n - 1, nil
}

func parseInt(name, arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, errors.InvalidArgumentf("%s must be a whole number, got %q", name, arg)
	}
	return n, nil
}

func parseUint(name, arg string) (uint, error) {
	n, err := strconv.ParseUint(arg, 10, 0)
	if err != nil {
		return 0, errors.InvalidArgumentf("%s must be a non-negative whole number, got %q", name, arg)
	}
	return uint(n), nil
}

// parseFields reads field=value pairs such as "class=f3" or "hp=12"
func parseFields(args []string) (map[combat.Field]string, error) {
	fields := make(map[combat.Field]string, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, errors.InvalidArgumentf("expected field=value, got %q", arg)
		}
		field, err := combat.ParseField(name)
		if err != nil {
			return nil, err
		}
		fields[field] = value
	}
	return fields, nil
}
