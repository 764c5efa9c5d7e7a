package domain

// Role is the closed set of actor kinds known to the system.
type Role string

const (
	RoleVisitor  Role = "VISITOR"
	RoleOwner    Role = "OWNER"
	RoleCarrier  Role = "CARRIER"
	RoleBusiness Role = "BUSINESS"
	RoleGov      Role = "GOV"
)

// ValidRole reports whether s names a known role.
func ValidRole(s string) bool {
	switch Role(s) {
	case RoleVisitor, RoleOwner, RoleCarrier, RoleBusiness, RoleGov:
		return true
	}
	return false
}

// TnaStatus is the lifecycle state of a TNA.
type TnaStatus string

const (
	TnaStatusActive  TnaStatus = "ACTIVE"
	TnaStatusExpired TnaStatus = "EXPIRED"
	TnaStatusRevoked TnaStatus = "REVOKED"
)

// ShipmentStatus values. Ordering between them is deliberately unenforced;
// the transit lock derives from the current status alone.
type ShipmentStatus string

const (
	ShipmentStatusPending   ShipmentStatus = "PENDING"
	ShipmentStatusInTransit ShipmentStatus = "IN_TRANSIT"
	ShipmentStatusDelivered ShipmentStatus = "DELIVERED"
)

// ValidShipmentStatus reports whether s names a known shipment status.
func ValidShipmentStatus(s string) bool {
	switch ShipmentStatus(s) {
	case ShipmentStatusPending, ShipmentStatusInTransit, ShipmentStatusDelivered:
		return true
	}
	return false
}

// InTransit reports whether the status engages the transit lock.
func (s ShipmentStatus) InTransit() bool {
	return s == ShipmentStatusPending || s == ShipmentStatusInTransit
}

// Audit action tags.
const (
	AuditActionTnaIssue         = "TNA_ISSUE"
	AuditActionTnaRevoke        = "TNA_REVOKE"
	AuditActionBind             = "BIND"
	AuditActionUnlink           = "UNLINK"
	AuditActionPayment          = "PAYMENT"
	AuditActionShipmentUpdate   = "SHIPMENT_UPDATE"
	AuditActionPropertyRegister = "PROPERTY_REGISTER"
)

// Echo context keys for the authenticated identity.
const (
	RequesterIdCtxKey   = "ma-requesterId"
	RequesterRoleCtxKey = "ma-requesterRole"
)
