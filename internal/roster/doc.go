// Package roster holds the ordered rows of an encounter and the commands an
// operator issues against them.
//
// A row is either Building, a combatant still being entered, or Done, a fully
// described combatant. Rows are resorted by effective initiative whenever a row
// is added and at the start of every round; dead combatants drop out at that
// point. Commands that fail leave the roster unchanged.
package roster
