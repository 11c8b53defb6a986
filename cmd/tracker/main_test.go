package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/combat-tracker/internal/errors"
)

type CLITestSuite struct {
	suite.Suite
	db string
	id string
}

func (s *CLITestSuite) SetupTest() {
	s.id = ""
	s.T().Setenv("TRACKER_STORE", "sqlite")
	s.T().Setenv("TRACKER_ENCOUNTER", "")
	s.T().Setenv("TRACKER_LOG_LEVEL", "error")
	s.db = filepath.Join(s.T().TempDir(), "tracker.db")

	out := s.run("new", "Crypt")
	match := regexp.MustCompile(`TRACKER_ENCOUNTER=(\S+)`).FindStringSubmatch(out)
	s.Require().Len(match, 2, out)
	s.id = match[1]
}

func (s *CLITestSuite) exec(args ...string) (string, error) {
	var out bytes.Buffer
	full := append([]string{"--db", s.db}, args...)
	if s.id != "" {
		full = append(full, "--encounter", s.id)
	}
	err := run(context.Background(), full, &out)
	return out.String(), err
}

func (s *CLITestSuite) run(args ...string) string {
	out, err := s.exec(args...)
	s.Require().NoError(err, out)
	return out
}

func (s *CLITestSuite) TestAddAndShow() {
	s.run("add", "Brunhild", "class=f5", "hd=5", "hp=38", "attacks=2", "ac=3", "team=1", "init=7")
	out := s.run("add", "Goblin", "class=.1", "hd=1", "hp=5")

	s.Contains(out, "Row 2 still needs attacks")

	show := s.run("show")
	s.Contains(show, "Crypt")
	s.Contains(show, "round 1")
	s.Contains(show, "Brunhild")
	s.Contains(show, "38/38")
	s.Contains(show, "needs attacks (3/7)")
}

func (s *CLITestSuite) TestFightToTheDeath() {
	s.run("add", "Brunhild", "class=f5", "hd=5", "hp=38", "attacks=2", "ac=3", "team=1", "init=7")
	s.run("add", "Goblin", "class=.1", "hd=1", "hp=5", "attacks=1", "ac=6", "team=2", "init=2")

	out := s.run("attack", "1", "2", "20")
	s.Contains(out, "Brunhild hits Goblin")
	s.Contains(out, "dead")

	out = s.run("next")
	s.Contains(out, "Goblin is dead and leaves the fight")
	s.Contains(out, "round 2")
	s.NotContains(s.run("show"), "Goblin")

	out = s.run("xp", "1")
	s.Contains(out, "Brunhild:")
}

func (s *CLITestSuite) TestFillCompletesRow() {
	s.run("add", "Goblin", "class=.1", "hd=1", "hp=5", "attacks=1", "ac=6", "team=2")

	out := s.run("fill", "1", "init", "4")
	s.Contains(out, "Row 1 is ready to fight")
}

func (s *CLITestSuite) TestImport() {
	path := filepath.Join(s.T().TempDir(), "party.json")
	s.Require().NoError(os.WriteFile(path, []byte(`[
		{"name": "Hobgoblin", "level/hd": 1, "class": ".1", "hp": "7", "ac": 5}
	]`), 0o600))

	out := s.run("import", path)
	s.Contains(out, "Imported 1 combatants")
	s.Contains(out, "Hobgoblin")
}

func (s *CLITestSuite) TestListMarksCurrent() {
	out := s.run("list")
	s.Contains(out, s.id)
	s.Contains(out, "*")
}

func (s *CLITestSuite) TestRuleViolationExitsWithOperatorCode() {
	s.run("add", "Brunhild", "class=f5", "hd=5", "hp=38", "attacks=1", "ac=3", "team=1", "init=7")
	s.run("add", "Goblin", "class=.1", "hd=1", "hp=50", "attacks=1", "ac=6", "team=2", "init=2")
	s.run("attack", "1", "2", "1")

	_, err := s.exec("attack", "1", "2", "1")
	s.Require().Error(err)
	s.True(errors.IsFailedPrecondition(err))
	s.Equal(2, errors.GetCode(err).ExitCode())
}

func (s *CLITestSuite) TestBadRowNumber() {
	_, err := s.exec("damage", "0", "3")
	s.True(errors.IsInvalidArgument(err))
}

func (s *CLITestSuite) TestNoEncounterChosen() {
	s.id = ""
	_, err := s.exec("show")
	s.True(errors.IsInvalidArgument(err))
}

func (s *CLITestSuite) TestDelete() {
	s.run("rm")

	_, err := s.exec("show")
	s.True(errors.IsNotFound(err))
}

func TestCLISuite(t *testing.T) {
	suite.Run(t, new(CLITestSuite))
}
