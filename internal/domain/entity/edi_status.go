package entity

// Estados EDI de un documento comercial. La máquina de estados solo avanza
// draft→pending→sent; pending→fail; fail→pending (reintento). Un documento
// nunca se elimina desde el motor EDI.
const (
	EDIStatusDraft   = "draft"
	EDIStatusPending = "pending"
	EDIStatusSent    = "sent"
	EDIStatusFail    = "fail"
)
