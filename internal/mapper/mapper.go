package mapper

import (
	"time"

	"github.com/opsboard-hq/opsboard-api/internal/billing"
	"github.com/opsboard-hq/opsboard-api/internal/domain"
)

const timeFormat = "2006-01-02T15:04:05Z"

// ToClientDTO converts Client to ClientDTO
func ToClientDTO(client *domain.Client) domain.ClientDTO {
	return domain.ClientDTO{
		ID:                client.ID,
		Name:              client.Name,
		CompanyName:       client.CompanyName,
		Email:             client.Email,
		Phone:             client.Phone,
		Sector:            client.Sector,
		AcquisitionSource: client.AcquisitionSource,
		Status:            client.Status,
		NPSScore:          client.NPSScore,
		LifetimeValue:     client.LifetimeValue,
		UpsellPotential:   client.UpsellPotential,
		CreatedAt:         client.CreatedAt.Format(timeFormat),
		UpdatedAt:         client.UpdatedAt.Format(timeFormat),
	}
}

// ToProjectDTO converts Project to ProjectDTO. Total costs, profit and the
// overdue flag are derived here, never read from storage.
func ToProjectDTO(project *domain.Project, now time.Time) domain.ProjectDTO {
	totalCosts := 0.0
	for i := range project.Costs {
		totalCosts += project.Costs[i].Amount
	}

	dto := domain.ProjectDTO{
		ID:              project.ID,
		ClientID:        project.ClientID,
		Name:            project.Name,
		Description:     project.Description,
		Status:          project.Status,
		Value:           project.Value,
		EstimatedHours:  project.EstimatedHours,
		WorkedHours:     project.WorkedHours,
		ProgressPercent: project.ProgressPercent,
		IsRecurring:     project.IsRecurring,
		IsOverdue:       project.IsOverdue(now),
		TotalCosts:      totalCosts,
		Profit:          project.Value - totalCosts,
		CreatedAt:       project.CreatedAt.Format(timeFormat),
		UpdatedAt:       project.UpdatedAt.Format(timeFormat),
	}

	if project.Client != nil {
		dto.ClientName = project.Client.Name
	}
	if project.StartDate != nil {
		s := project.StartDate.Format(timeFormat)
		dto.StartDate = &s
	}
	if project.DueDate != nil {
		s := project.DueDate.Format(timeFormat)
		dto.DueDate = &s
	}

	return dto
}

// ToProjectCostDTO converts ProjectCost to ProjectCostDTO
func ToProjectCostDTO(cost *domain.ProjectCost) domain.ProjectCostDTO {
	return domain.ProjectCostDTO{
		ID:        cost.ID,
		ProjectID: cost.ProjectID,
		Amount:    cost.Amount,
		Category:  cost.Category,
		CostDate:  cost.CostDate.Format(timeFormat),
		Notes:     cost.Notes,
		CreatedAt: cost.CreatedAt.Format(timeFormat),
	}
}

// ToSubscriptionServiceDTO converts a checklist row to its DTO
func ToSubscriptionServiceDTO(svc *domain.SubscriptionService) domain.SubscriptionServiceDTO {
	return domain.SubscriptionServiceDTO{
		ID:          svc.ID,
		Description: svc.Description,
		IsCompleted: svc.IsCompleted,
		Order:       svc.DisplayOrder,
	}
}

// ToPaymentDTO converts Payment to PaymentDTO
func ToPaymentDTO(payment *domain.Payment) domain.PaymentDTO {
	return domain.PaymentDTO{
		ID:             payment.ID,
		SubscriptionID: payment.SubscriptionID,
		Amount:         payment.Amount,
		PaymentDate:    payment.PaymentDate.Format(timeFormat),
		ReferenceMonth: payment.ReferenceMonth,
		ReferenceYear:  payment.ReferenceYear,
		ReceiptFile:    payment.ReceiptFile,
		Notes:          payment.Notes,
		CreatedAt:      payment.CreatedAt.Format(timeFormat),
	}
}

// ToSubscriptionWithClientDTO builds the aggregated subscription view.
// The billing date is computed from the billing day against now on every
// call; "invalid" marks a billing day the calculator cannot resolve.
// Services are assumed to be preloaded in display order.
func ToSubscriptionWithClientDTO(sub *domain.Subscription, lastPayment *domain.Payment, now time.Time) domain.SubscriptionWithClientDTO {
	services := make([]domain.SubscriptionServiceDTO, len(sub.Services))
	completed := 0
	for i := range sub.Services {
		services[i] = ToSubscriptionServiceDTO(&sub.Services[i])
		if sub.Services[i].IsCompleted {
			completed++
		}
	}

	next := billing.NextBillingDate(sub.BillingDay, now)
	nextStr := "invalid"
	if !next.IsZero() {
		nextStr = next.Format(timeFormat)
	}

	dto := domain.SubscriptionWithClientDTO{
		ID:                sub.ID,
		ClientID:          sub.ClientID,
		BillingDay:        sub.BillingDay,
		Amount:            sub.Amount,
		Status:            sub.Status,
		Services:          services,
		CompletedServices: completed,
		TotalServices:     len(sub.Services),
		NextBillingDate:   nextStr,
		IsOverdue:         billing.IsOverdue(next, now),
		CreatedAt:         sub.CreatedAt.Format(timeFormat),
		UpdatedAt:         sub.UpdatedAt.Format(timeFormat),
	}

	if sub.Client != nil {
		dto.Client = ToClientDTO(sub.Client)
	}
	if lastPayment != nil {
		p := ToPaymentDTO(lastPayment)
		dto.LastPayment = &p
	}

	return dto
}

// ToProposalDTO converts Proposal to ProposalDTO
func ToProposalDTO(proposal *domain.Proposal) domain.ProposalDTO {
	dto := domain.ProposalDTO{
		ID:        proposal.ID,
		ClientID:  proposal.ClientID,
		Title:     proposal.Title,
		Value:     proposal.Value,
		Status:    proposal.Status,
		Notes:     proposal.Notes,
		CreatedAt: proposal.CreatedAt.Format(timeFormat),
		UpdatedAt: proposal.UpdatedAt.Format(timeFormat),
	}

	if proposal.Client != nil {
		dto.ClientName = proposal.Client.Name
	}
	if proposal.ValidUntil != nil {
		s := proposal.ValidUntil.Format(timeFormat)
		dto.ValidUntil = &s
	}

	return dto
}

// ToAlertDTO converts Alert to AlertDTO
func ToAlertDTO(alert *domain.Alert) domain.AlertDTO {
	dto := domain.AlertDTO{
		ID:         alert.ID,
		Type:       alert.Type,
		Title:      alert.Title,
		Message:    alert.Message,
		EntityID:   alert.EntityID,
		EntityType: alert.EntityType,
		Priority:   alert.Priority,
		IsRead:     alert.IsRead,
		CreatedAt:  alert.CreatedAt.Format(timeFormat),
	}

	if alert.ReadAt != nil {
		s := alert.ReadAt.Format(timeFormat)
		dto.ReadAt = &s
	}

	return dto
}

// ToNotificationRuleDTO converts NotificationRule to NotificationRuleDTO
func ToNotificationRuleDTO(rule *domain.NotificationRule) domain.NotificationRuleDTO {
	return domain.NotificationRuleDTO{
		ID:          rule.ID,
		Name:        rule.Name,
		Description: rule.Description,
		Condition:   rule.Condition,
		IsActive:    rule.IsActive,
		CreatedAt:   rule.CreatedAt.Format(timeFormat),
		UpdatedAt:   rule.UpdatedAt.Format(timeFormat),
	}
}
