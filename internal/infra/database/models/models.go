package models

import (
	"time"
)

type Person struct {
	ID           int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name         string    `json:"name" gorm:"type:text;not null"`
	Email        string    `json:"email" gorm:"type:text;not null;uniqueIndex:uniq_person_email"`
	PasswordHash string    `json:"-" gorm:"type:text;not null"`
	Role         string    `json:"role" gorm:"type:text;not null;index"`
	IDNumber     string    `json:"idNumber" gorm:"type:text;uniqueIndex:uniq_person_id_number"`
	CDate        time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}

type Tna struct {
	ID        int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	Code      string     `json:"code" gorm:"type:text;not null;uniqueIndex:uniq_tna_code"`
	VisitorID int64      `json:"visitorId" gorm:"not null;index"`
	Visitor   Person     `json:"-" gorm:"foreignKey:VisitorID;constraint:OnDelete:RESTRICT;"`
	Status    string     `json:"status" gorm:"type:text;not null;default:'ACTIVE';index"`
	ExpiresAt *time.Time `json:"expiresAt" gorm:"type:timestamp with time zone"`
	CDate     time.Time  `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}

type Property struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	OwnerID     int64     `json:"ownerId" gorm:"not null;index"`
	Owner       Person    `json:"-" gorm:"foreignKey:OwnerID;constraint:OnDelete:RESTRICT;"`
	BaseAddress string    `json:"baseAddress" gorm:"type:text;not null"`
	City        string    `json:"city" gorm:"type:text;not null;index"`
	Region      string    `json:"region" gorm:"type:text;not null;index"`
	CDate       time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
	Units       []Unit    `json:"units"`
}

type Unit struct {
	ID          int64    `json:"id" gorm:"primaryKey;autoIncrement"`
	PropertyID  int64    `json:"propertyId" gorm:"not null;index;uniqueIndex:uniq_unit_identifier"`
	Property    Property `json:"-" gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE;"`
	Identifier  string   `json:"identifier" gorm:"type:text;not null;uniqueIndex:uniq_unit_identifier"`
	IsAvailable bool     `json:"isAvailable" gorm:"type:boolean;not null;default:true;index"`
}

// Binding rows are soft-deactivated, never deleted. The two partial unique
// indexes are the authoritative guards: at most one active row per TNA and
// at most one active row per unit, even under racing transactions.
type Binding struct {
	ID        int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	TnaID     int64      `json:"tnaId" gorm:"not null;uniqueIndex:uniq_active_binding_tna,where:is_active"`
	Tna       Tna        `json:"-" gorm:"foreignKey:TnaID;constraint:OnDelete:RESTRICT;"`
	UnitID    int64      `json:"unitId" gorm:"not null;uniqueIndex:uniq_active_binding_unit,where:is_active"`
	Unit      Unit       `json:"-" gorm:"foreignKey:UnitID;constraint:OnDelete:RESTRICT;"`
	IsActive  bool       `json:"isActive" gorm:"type:boolean;not null;default:true"`
	StartDate time.Time  `json:"startDate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
	EndDate   *time.Time `json:"endDate" gorm:"type:timestamp with time zone"`
}

type Shipment struct {
	ID             int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	TrackingNumber string    `json:"trackingNumber" gorm:"type:text;not null;uniqueIndex:uniq_shipment_tracking"`
	TnaID          int64     `json:"tnaId" gorm:"not null;index"`
	Tna            Tna       `json:"-" gorm:"foreignKey:TnaID;constraint:OnDelete:RESTRICT;"`
	CarrierID      int64     `json:"carrierId" gorm:"not null;index"`
	Carrier        Person    `json:"-" gorm:"foreignKey:CarrierID;constraint:OnDelete:RESTRICT;"`
	Status         string    `json:"status" gorm:"type:text;not null;index"`
	MDate          time.Time `json:"mdate" gorm:"type:timestamp with time zone;not null;default:clock_timestamp()"`
}

type AuditEntry struct {
	ID       int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID   int64     `json:"userId" gorm:"not null;index"`
	Action   string    `json:"action" gorm:"type:text;not null"`
	Metadata string    `json:"metadata" gorm:"type:text;not null;default:'{}'"`
	CDate    time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}

type Payment struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Reference string    `json:"reference" gorm:"type:text;not null;uniqueIndex:uniq_payment_reference"`
	UserID    int64     `json:"userId" gorm:"not null;index"`
	Amount    int64     `json:"amount" gorm:"not null"`
	Kind      string    `json:"kind" gorm:"type:text;not null"`
	CDate     time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}
