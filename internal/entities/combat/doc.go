// Package combat holds the combat rules of an encounter: the incapacitation
// state machine, the class attack-rating tables, combatants and the builder
// used while a combatant is still being entered.
package combat
