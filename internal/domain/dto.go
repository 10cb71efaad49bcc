package domain

import (
	"time"

	"github.com/google/uuid"
)

// DTOs for API responses. Derived fields (nextBillingDate, overdue, profit,
// MRR) exist only here; they are computed per request and never stored.

type ClientDTO struct {
	ID                uuid.UUID       `json:"id"`
	Name              string          `json:"name"`
	CompanyName       string          `json:"companyName,omitempty"`
	Email             string          `json:"email"`
	Phone             string          `json:"phone,omitempty"`
	Sector            string          `json:"sector,omitempty"`
	AcquisitionSource string          `json:"acquisitionSource,omitempty"`
	Status            ClientStatus    `json:"status"`
	NPSScore          *float64        `json:"npsScore,omitempty"`
	LifetimeValue     float64         `json:"lifetimeValue"`
	UpsellPotential   UpsellPotential `json:"upsellPotential"`
	CreatedAt         string          `json:"createdAt"` // ISO 8601
	UpdatedAt         string          `json:"updatedAt"` // ISO 8601
}

type ProjectDTO struct {
	ID              uuid.UUID     `json:"id"`
	ClientID        uuid.UUID     `json:"clientId"`
	ClientName      string        `json:"clientName,omitempty"`
	Name            string        `json:"name"`
	Description     string        `json:"description,omitempty"`
	Status          ProjectStatus `json:"status"`
	Value           float64       `json:"value"`
	EstimatedHours  float64       `json:"estimatedHours"`
	WorkedHours     float64       `json:"workedHours"`
	ProgressPercent float64       `json:"progressPercent"`
	StartDate       *string       `json:"startDate,omitempty"` // ISO 8601
	DueDate         *string       `json:"dueDate,omitempty"`   // ISO 8601
	IsRecurring     bool          `json:"isRecurring"`
	IsOverdue       bool          `json:"isOverdue"` // derived against request time
	TotalCosts      float64       `json:"totalCosts"`
	Profit          float64       `json:"profit"` // value - total costs, derived
	CreatedAt       string        `json:"createdAt"`
	UpdatedAt       string        `json:"updatedAt"`
}

type ProjectCostDTO struct {
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"projectId"`
	Amount    float64   `json:"amount"`
	Category  string    `json:"category,omitempty"`
	CostDate  string    `json:"costDate"` // ISO 8601
	Notes     string    `json:"notes,omitempty"`
	CreatedAt string    `json:"createdAt"`
}

type SubscriptionServiceDTO struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description"`
	IsCompleted bool      `json:"isCompleted"`
	Order       int       `json:"order"`
}

type PaymentDTO struct {
	ID             uuid.UUID `json:"id"`
	SubscriptionID uuid.UUID `json:"subscriptionId"`
	Amount         float64   `json:"amount"`
	PaymentDate    string    `json:"paymentDate"` // ISO 8601
	ReferenceMonth int       `json:"referenceMonth"`
	ReferenceYear  int       `json:"referenceYear"`
	ReceiptFile    string    `json:"receiptFile,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      string    `json:"createdAt"`
}

// SubscriptionWithClientDTO is the aggregated read model for subscriptions:
// the row itself, the full client, the ordered service checklist and the
// billing fields computed at response time.
type SubscriptionWithClientDTO struct {
	ID                uuid.UUID                `json:"id"`
	ClientID          uuid.UUID                `json:"clientId"`
	Client            ClientDTO                `json:"client"`
	BillingDay        int                      `json:"billingDay"`
	Amount            float64                  `json:"amount"`
	Status            SubscriptionStatus       `json:"status"`
	Services          []SubscriptionServiceDTO `json:"services"`
	CompletedServices int                      `json:"completedServices"`
	TotalServices     int                      `json:"totalServices"`
	NextBillingDate   string                   `json:"nextBillingDate"` // ISO 8601; "invalid" when not computable
	IsOverdue         bool                     `json:"isOverdue"`
	LastPayment       *PaymentDTO              `json:"lastPayment,omitempty"`
	CreatedAt         string                   `json:"createdAt"`
	UpdatedAt         string                   `json:"updatedAt"`
}

type ProposalDTO struct {
	ID         uuid.UUID      `json:"id"`
	ClientID   uuid.UUID      `json:"clientId"`
	ClientName string         `json:"clientName,omitempty"`
	Title      string         `json:"title"`
	Value      float64        `json:"value"`
	Status     ProposalStatus `json:"status"`
	ValidUntil *string        `json:"validUntil,omitempty"` // ISO 8601
	Notes      string         `json:"notes,omitempty"`
	CreatedAt  string         `json:"createdAt"`
	UpdatedAt  string         `json:"updatedAt"`
}

type AlertDTO struct {
	ID         uuid.UUID     `json:"id"`
	Type       AlertType     `json:"type"`
	Title      string        `json:"title"`
	Message    string        `json:"message"`
	EntityID   uuid.UUID     `json:"entityId"`
	EntityType string        `json:"entityType"`
	Priority   AlertPriority `json:"priority"`
	IsRead     bool          `json:"isRead"`
	ReadAt     *string       `json:"readAt,omitempty"` // ISO 8601
	CreatedAt  string        `json:"createdAt"`
}

type NotificationRuleDTO struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Condition   RuleCondition `json:"condition"`
	IsActive    bool          `json:"isActive"`
	CreatedAt   string        `json:"createdAt"`
	UpdatedAt   string        `json:"updatedAt"`
}

// DashboardMetrics aggregates the headline numbers for the dashboard view
type DashboardMetrics struct {
	MRR                 float64 `json:"mrr"` // sum of active subscriptions' amounts
	ActiveClients       int     `json:"activeClients"`
	ProspectClients     int     `json:"prospectClients"`
	ActiveProjects      int     `json:"activeProjects"`
	OverdueProjects     int     `json:"overdueProjects"`
	ActiveSubscriptions int     `json:"activeSubscriptions"`
	UnreadAlerts        int     `json:"unreadAlerts"`
	OpenProposals       int     `json:"openProposals"` // draft + sent
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

// Request DTOs

type CreateClientRequest struct {
	Name              string          `json:"name" validate:"required,max=200"`
	CompanyName       string          `json:"companyName,omitempty" validate:"max=200"`
	Email             string          `json:"email" validate:"required,email,max=255"`
	Phone             string          `json:"phone,omitempty" validate:"max=50"`
	Sector            string          `json:"sector,omitempty" validate:"max=100"`
	AcquisitionSource string          `json:"acquisitionSource,omitempty" validate:"max=100"`
	Status            ClientStatus    `json:"status,omitempty" validate:"omitempty,oneof=active inactive prospect"`
	NPSScore          *float64        `json:"npsScore,omitempty" validate:"omitempty,gte=0,lte=10"`
	LifetimeValue     float64         `json:"lifetimeValue,omitempty" validate:"gte=0"`
	UpsellPotential   UpsellPotential `json:"upsellPotential,omitempty" validate:"omitempty,oneof=low medium high"`
}

type UpdateClientRequest struct {
	Name              string          `json:"name" validate:"required,max=200"`
	CompanyName       string          `json:"companyName,omitempty" validate:"max=200"`
	Email             string          `json:"email" validate:"required,email,max=255"`
	Phone             string          `json:"phone,omitempty" validate:"max=50"`
	Sector            string          `json:"sector,omitempty" validate:"max=100"`
	AcquisitionSource string          `json:"acquisitionSource,omitempty" validate:"max=100"`
	Status            ClientStatus    `json:"status,omitempty" validate:"omitempty,oneof=active inactive prospect"`
	NPSScore          *float64        `json:"npsScore,omitempty" validate:"omitempty,gte=0,lte=10"`
	LifetimeValue     float64         `json:"lifetimeValue,omitempty" validate:"gte=0"`
	UpsellPotential   UpsellPotential `json:"upsellPotential,omitempty" validate:"omitempty,oneof=low medium high"`
}

type CreateProjectRequest struct {
	ClientID        uuid.UUID     `json:"clientId" validate:"required"`
	Name            string        `json:"name" validate:"required,max=200"`
	Description     string        `json:"description,omitempty"`
	Status          ProjectStatus `json:"status,omitempty" validate:"omitempty,oneof=discovery development delivery post_sale completed cancelled"`
	Value           float64       `json:"value,omitempty" validate:"gte=0"`
	EstimatedHours  float64       `json:"estimatedHours,omitempty" validate:"gte=0"`
	WorkedHours     float64       `json:"workedHours,omitempty" validate:"gte=0"`
	ProgressPercent float64       `json:"progressPercent,omitempty" validate:"gte=0,lte=100"`
	StartDate       *time.Time    `json:"startDate,omitempty"`
	DueDate         *time.Time    `json:"dueDate,omitempty"`
	IsRecurring     bool          `json:"isRecurring,omitempty"`
}

// UpdateProjectRequest carries a partial update; nil fields are left
// untouched.
type UpdateProjectRequest struct {
	Name            *string        `json:"name,omitempty" validate:"omitempty,max=200"`
	Description     *string        `json:"description,omitempty"`
	Status          *ProjectStatus `json:"status,omitempty" validate:"omitempty,oneof=discovery development delivery post_sale completed cancelled"`
	Value           *float64       `json:"value,omitempty" validate:"omitempty,gte=0"`
	EstimatedHours  *float64       `json:"estimatedHours,omitempty" validate:"omitempty,gte=0"`
	WorkedHours     *float64       `json:"workedHours,omitempty" validate:"omitempty,gte=0"`
	ProgressPercent *float64       `json:"progressPercent,omitempty" validate:"omitempty,gte=0,lte=100"`
	StartDate       *time.Time     `json:"startDate,omitempty"`
	DueDate         *time.Time     `json:"dueDate,omitempty"`
	IsRecurring     *bool          `json:"isRecurring,omitempty"`
}

type CreateProjectCostRequest struct {
	Amount   float64   `json:"amount" validate:"required,gt=0"`
	Category string    `json:"category,omitempty" validate:"max=100"`
	CostDate time.Time `json:"costDate" validate:"required"`
	Notes    string    `json:"notes,omitempty"`
}

type CreateSubscriptionRequest struct {
	ClientID   uuid.UUID          `json:"clientId" validate:"required"`
	BillingDay int                `json:"billingDay" validate:"required,gte=1,lte=31"`
	Amount     float64            `json:"amount" validate:"required,gt=0"`
	Status     SubscriptionStatus `json:"status,omitempty" validate:"omitempty,oneof=active paused cancelled"`
}

// UpdateSubscriptionRequest carries a partial update (PATCH semantics); nil
// fields are left untouched. Changing BillingDay changes the next computed
// billing date on the following read; nothing is recomputed or stored here.
type UpdateSubscriptionRequest struct {
	BillingDay *int                `json:"billingDay,omitempty" validate:"omitempty,gte=1,lte=31"`
	Amount     *float64            `json:"amount,omitempty" validate:"omitempty,gt=0"`
	Status     *SubscriptionStatus `json:"status,omitempty" validate:"omitempty,oneof=active paused cancelled"`
}

type CreateSubscriptionServiceRequest struct {
	Description string `json:"description" validate:"required,max=500"`
	Order       int    `json:"order,omitempty" validate:"gte=0"`
}

type UpdateSubscriptionServiceRequest struct {
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
	IsCompleted *bool   `json:"isCompleted,omitempty"`
	Order       *int    `json:"order,omitempty" validate:"omitempty,gte=0"`
}

type CreatePaymentRequest struct {
	Amount         float64   `json:"amount" validate:"required,gt=0"`
	PaymentDate    time.Time `json:"paymentDate" validate:"required"`
	ReferenceMonth int       `json:"referenceMonth" validate:"required,gte=1,lte=12"`
	ReferenceYear  int       `json:"referenceYear" validate:"required,gte=2000,lte=2100"`
	ReceiptFile    string    `json:"receiptFile,omitempty" validate:"max=500"`
	Notes          string    `json:"notes,omitempty"`
}

type CreateProposalRequest struct {
	ClientID   uuid.UUID      `json:"clientId" validate:"required"`
	Title      string         `json:"title" validate:"required,max=200"`
	Value      float64        `json:"value,omitempty" validate:"gte=0"`
	Status     ProposalStatus `json:"status,omitempty" validate:"omitempty,oneof=draft sent accepted rejected"`
	ValidUntil *time.Time     `json:"validUntil,omitempty"`
	Notes      string         `json:"notes,omitempty"`
}

type UpdateProposalRequest struct {
	Title      string         `json:"title" validate:"required,max=200"`
	Value      float64        `json:"value,omitempty" validate:"gte=0"`
	Status     ProposalStatus `json:"status,omitempty" validate:"omitempty,oneof=draft sent accepted rejected"`
	ValidUntil *time.Time     `json:"validUntil,omitempty"`
	Notes      string         `json:"notes,omitempty"`
}

type CreateNotificationRuleRequest struct {
	Name        string        `json:"name" validate:"required,max=200"`
	Description string        `json:"description,omitempty"`
	Condition   RuleCondition `json:"condition" validate:"required"`
	IsActive    *bool         `json:"isActive,omitempty"`
}

type UpdateNotificationRuleRequest struct {
	Name        string        `json:"name" validate:"required,max=200"`
	Description string        `json:"description,omitempty"`
	Condition   RuleCondition `json:"condition" validate:"required"`
	IsActive    *bool         `json:"isActive,omitempty"`
}
