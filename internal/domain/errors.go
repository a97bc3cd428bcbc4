package domain

import "errors"

// Domänenfehler (ohne externe Abhängigkeiten).
var (
	ErrNotFound           = errors.New("ressource nicht gefunden")
	ErrInvalidInput       = errors.New("ungültige eingabe")
	ErrDuplicate          = errors.New("ressource bereits vorhanden")
	ErrConflict           = errors.New("konflikt mit aktuellem zustand")
	ErrInvalidTransition  = errors.New("statusübergang nicht erlaubt")
	ErrRemindersDisabled  = errors.New("mahnwesen ist deaktiviert")
	ErrReminderStageLimit = errors.New("höchste mahnstufe bereits erreicht")
	ErrNotOverdue         = errors.New("rechnung ist nicht überfällig")
	ErrGeneration         = errors.New("dokumenterzeugung fehlgeschlagen")
)
