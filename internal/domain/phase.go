package domain

type Phase string

const (
	PhaseUninitialized Phase = "uninitialized"
	PhaseSelecting     Phase = "selecting"
	PhaseReady         Phase = "ready"
	PhaseBusy          Phase = "busy"
	PhaseError         Phase = "error"
)
