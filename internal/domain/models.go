package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns the primary key app-side. The production schema also
// carries a gen_random_uuid() default (see migrations), but the in-memory
// sqlite used by the test suite has no such function, so the tag stays off
// the model.
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// ClientStatus represents the lifecycle status of a client
type ClientStatus string

const (
	ClientStatusActive   ClientStatus = "active"
	ClientStatusInactive ClientStatus = "inactive"
	ClientStatusProspect ClientStatus = "prospect"
)

// IsValid checks if the ClientStatus is a valid enum value
func (cs ClientStatus) IsValid() bool {
	switch cs {
	case ClientStatusActive, ClientStatusInactive, ClientStatusProspect:
		return true
	}
	return false
}

// UpsellPotential represents how likely a client is to buy more services
type UpsellPotential string

const (
	UpsellPotentialLow    UpsellPotential = "low"
	UpsellPotentialMedium UpsellPotential = "medium"
	UpsellPotentialHigh   UpsellPotential = "high"
)

// Client represents a customer account in the operations dashboard
type Client struct {
	BaseModel
	Name              string          `gorm:"type:varchar(200);not null;index"`
	CompanyName       string          `gorm:"type:varchar(200);column:company_name"`
	Email             string          `gorm:"type:varchar(255);not null"`
	Phone             string          `gorm:"type:varchar(50)"`
	Sector            string          `gorm:"type:varchar(100);index"`
	AcquisitionSource string          `gorm:"type:varchar(100);column:acquisition_source"`
	Status            ClientStatus    `gorm:"type:varchar(50);not null;default:'prospect';index"`
	NPSScore          *float64        `gorm:"type:decimal(4,1);column:nps_score"`
	LifetimeValue     float64         `gorm:"type:decimal(15,2);not null;default:0;column:lifetime_value"`
	UpsellPotential   UpsellPotential `gorm:"type:varchar(50);not null;default:'low';column:upsell_potential"`
	Projects          []Project       `gorm:"foreignKey:ClientID"`
	Subscriptions     []Subscription  `gorm:"foreignKey:ClientID"`
	Proposals         []Proposal      `gorm:"foreignKey:ClientID"`
}

// ProjectStatus represents the status of a project
type ProjectStatus string

const (
	ProjectStatusDiscovery   ProjectStatus = "discovery"
	ProjectStatusDevelopment ProjectStatus = "development"
	ProjectStatusDelivery    ProjectStatus = "delivery"
	ProjectStatusPostSale    ProjectStatus = "post_sale"
	ProjectStatusCompleted   ProjectStatus = "completed"
	ProjectStatusCancelled   ProjectStatus = "cancelled"
)

// IsValid checks if the ProjectStatus is a valid enum value
func (ps ProjectStatus) IsValid() bool {
	switch ps {
	case ProjectStatusDiscovery, ProjectStatusDevelopment, ProjectStatusDelivery,
		ProjectStatusPostSale, ProjectStatusCompleted, ProjectStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether the status ends a project's lifecycle.
// Terminal projects never count as overdue.
func (ps ProjectStatus) IsTerminal() bool {
	return ps == ProjectStatusCompleted || ps == ProjectStatusCancelled
}

// Project represents work being performed for a client
type Project struct {
	BaseModel
	ClientID        uuid.UUID     `gorm:"type:uuid;not null;index;column:client_id"`
	Client          *Client       `gorm:"foreignKey:ClientID"`
	Name            string        `gorm:"type:varchar(200);not null;index"`
	Description     string        `gorm:"type:text"`
	Status          ProjectStatus `gorm:"type:varchar(50);not null;default:'discovery';index"`
	Value           float64       `gorm:"type:decimal(15,2);not null;default:0"`
	EstimatedHours  float64       `gorm:"type:decimal(10,2);not null;default:0;column:estimated_hours"`
	WorkedHours     float64       `gorm:"type:decimal(10,2);not null;default:0;column:worked_hours"`
	ProgressPercent float64       `gorm:"type:decimal(5,2);not null;default:0;column:progress_percent"`
	StartDate       *time.Time    `gorm:"type:date;column:start_date"`
	DueDate         *time.Time    `gorm:"type:date;column:due_date;index"`
	IsRecurring     bool          `gorm:"not null;default:false;column:is_recurring"`
	Costs           []ProjectCost `gorm:"foreignKey:ProjectID"`
}

// IsOverdue reports whether the project is past its due date. Overdue is
// always derived against "now", never stored.
func (p *Project) IsOverdue(now time.Time) bool {
	if p.DueDate == nil || p.Status.IsTerminal() {
		return false
	}
	return p.DueDate.Before(now)
}

// ProjectCost represents a cost entry booked against a project
type ProjectCost struct {
	BaseModel
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index;column:project_id"`
	Project   *Project  `gorm:"foreignKey:ProjectID"`
	Amount    float64   `gorm:"type:decimal(15,2);not null"`
	Category  string    `gorm:"type:varchar(100)"`
	CostDate  time.Time `gorm:"type:date;not null;column:cost_date"`
	Notes     string    `gorm:"type:text"`
}

// SubscriptionStatus represents the status of a recurring subscription
type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusPaused    SubscriptionStatus = "paused"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

// IsValid checks if the SubscriptionStatus is a valid enum value
func (ss SubscriptionStatus) IsValid() bool {
	switch ss {
	case SubscriptionStatusActive, SubscriptionStatusPaused, SubscriptionStatusCancelled:
		return true
	}
	return false
}

// Subscription represents a monthly recurring engagement for a client.
// The next billing date and overdue state are derived from BillingDay at
// read time and are deliberately not columns on this table.
type Subscription struct {
	BaseModel
	ClientID   uuid.UUID             `gorm:"type:uuid;not null;index;column:client_id"`
	Client     *Client               `gorm:"foreignKey:ClientID"`
	BillingDay int                   `gorm:"type:int;not null;column:billing_day"`
	Amount     float64               `gorm:"type:decimal(15,2);not null;default:0"`
	Status     SubscriptionStatus    `gorm:"type:varchar(50);not null;default:'active';index"`
	Services   []SubscriptionService `gorm:"foreignKey:SubscriptionID"`
	Payments   []Payment             `gorm:"foreignKey:SubscriptionID"`
}

// SubscriptionService represents one item of a subscription's service
// checklist, ordered by DisplayOrder ascending
type SubscriptionService struct {
	BaseModel
	SubscriptionID uuid.UUID     `gorm:"type:uuid;not null;index;column:subscription_id"`
	Subscription   *Subscription `gorm:"foreignKey:SubscriptionID"`
	Description    string        `gorm:"type:varchar(500);not null"`
	IsCompleted    bool          `gorm:"not null;default:false;column:is_completed"`
	DisplayOrder   int           `gorm:"not null;default:0;column:display_order"`
}

// Payment represents a received payment for a subscription's reference month
type Payment struct {
	BaseModel
	SubscriptionID uuid.UUID     `gorm:"type:uuid;not null;index;column:subscription_id"`
	Subscription   *Subscription `gorm:"foreignKey:SubscriptionID"`
	Amount         float64       `gorm:"type:decimal(15,2);not null"`
	PaymentDate    time.Time     `gorm:"type:date;not null;column:payment_date"`
	ReferenceMonth int           `gorm:"type:int;not null;column:reference_month"`
	ReferenceYear  int           `gorm:"type:int;not null;column:reference_year"`
	ReceiptFile    string        `gorm:"type:varchar(500);column:receipt_file"`
	Notes          string        `gorm:"type:text"`
}

// ProposalStatus represents the status of a sales proposal
type ProposalStatus string

const (
	ProposalStatusDraft    ProposalStatus = "draft"
	ProposalStatusSent     ProposalStatus = "sent"
	ProposalStatusAccepted ProposalStatus = "accepted"
	ProposalStatusRejected ProposalStatus = "rejected"
)

// IsValid checks if the ProposalStatus is a valid enum value
func (ps ProposalStatus) IsValid() bool {
	switch ps {
	case ProposalStatusDraft, ProposalStatusSent, ProposalStatusAccepted, ProposalStatusRejected:
		return true
	}
	return false
}

// Proposal represents a sales proposal sent to a client
type Proposal struct {
	BaseModel
	ClientID   uuid.UUID      `gorm:"type:uuid;not null;index;column:client_id"`
	Client     *Client        `gorm:"foreignKey:ClientID"`
	Title      string         `gorm:"type:varchar(200);not null"`
	Value      float64        `gorm:"type:decimal(15,2);not null;default:0"`
	Status     ProposalStatus `gorm:"type:varchar(50);not null;default:'draft';index"`
	ValidUntil *time.Time     `gorm:"type:date;column:valid_until"`
	Notes      string         `gorm:"type:text"`
}

// AlertType represents the type of alert
type AlertType string

const (
	AlertTypeProjectDelayed      AlertType = "project_delayed"
	AlertTypePaymentPending      AlertType = "payment_pending"
	AlertTypeUpsellOpportunity   AlertType = "upsell_opportunity"
	AlertTypeMilestoneDue        AlertType = "milestone_due"
	AlertTypeSubscriptionDue     AlertType = "subscription_due"
	AlertTypeSubscriptionOverdue AlertType = "subscription_overdue"
)

// IsValid checks if the AlertType is a valid enum value
func (at AlertType) IsValid() bool {
	switch at {
	case AlertTypeProjectDelayed, AlertTypePaymentPending, AlertTypeUpsellOpportunity,
		AlertTypeMilestoneDue, AlertTypeSubscriptionDue, AlertTypeSubscriptionOverdue:
		return true
	}
	return false
}

// AlertPriority represents the urgency of an alert
type AlertPriority string

const (
	AlertPriorityLow      AlertPriority = "low"
	AlertPriorityMedium   AlertPriority = "medium"
	AlertPriorityHigh     AlertPriority = "high"
	AlertPriorityCritical AlertPriority = "critical"
)

// Alert represents a notification raised by the rule engine against an
// entity. The rule engine guarantees at most one unread alert per
// (EntityID, EntityType, Type) tuple; a matching partial unique index in
// the schema backs the same invariant against racing passes.
type Alert struct {
	BaseModel
	Type       AlertType     `gorm:"type:varchar(50);not null;index"`
	Title      string        `gorm:"type:varchar(200);not null"`
	Message    string        `gorm:"type:varchar(1000);not null"`
	EntityID   uuid.UUID     `gorm:"type:uuid;not null;index;column:entity_id"`
	EntityType string        `gorm:"type:varchar(50);not null;column:entity_type"`
	Priority   AlertPriority `gorm:"type:varchar(50);not null;default:'low'"`
	IsRead     bool          `gorm:"not null;default:false;column:is_read;index"`
	ReadAt     *time.Time    `gorm:"column:read_at"`
}

// RuleType identifies which checker a notification rule dispatches to
type RuleType string

const (
	RuleTypeProjectDelayed    RuleType = "project_delayed"
	RuleTypePaymentPending    RuleType = "payment_pending"
	RuleTypeUpsellOpportunity RuleType = "upsell_opportunity"
)

// IsValid checks if the RuleType is a valid enum value
func (rt RuleType) IsValid() bool {
	switch rt {
	case RuleTypeProjectDelayed, RuleTypePaymentPending, RuleTypeUpsellOpportunity:
		return true
	}
	return false
}

// RuleCondition is the structured condition descriptor stored on a
// notification rule. Only Type drives evaluation today; Field, Operator and
// RawValue are descriptive and reserved for a future generic evaluator.
// RawValue keeps the "value" wire key without colliding with the Valuer
// method below.
type RuleCondition struct {
	Type       RuleType `json:"type"`
	Field      string   `json:"field,omitempty"`
	Operator   string   `json:"operator,omitempty"`
	RawValue   string   `json:"value,omitempty"`
	EntityType string   `json:"entityType,omitempty"`
}

// Value implements driver.Valuer so the condition is stored as jsonb
func (rc RuleCondition) Value() (driver.Value, error) {
	return json.Marshal(rc)
}

// Scan implements sql.Scanner for reading the jsonb column
func (rc *RuleCondition) Scan(value interface{}) error {
	if value == nil {
		*rc = RuleCondition{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for RuleCondition: %T", value)
	}
	return json.Unmarshal(data, rc)
}

// NotificationRule represents a persisted rule definition evaluated by the
// periodic scheduler while IsActive is set
type NotificationRule struct {
	BaseModel
	Name        string        `gorm:"type:varchar(200);not null"`
	Description string        `gorm:"type:text"`
	Condition   RuleCondition `gorm:"type:jsonb;not null"`
	IsActive    bool          `gorm:"not null;default:true;column:is_active;index"`
}
