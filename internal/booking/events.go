package booking

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/careledger/internal/notification"
)

const category = "booking"

func changeRequestSubmitted(req *ChangeRequest, b *Booking) notification.Event {
	return notification.Event{
		OrganizationID: req.OrganizationID,
		Type:           "booking_change_requested",
		Category:       category,
		Priority:       notification.PriorityNormal,
		Title:          fmt.Sprintf("New %s request", req.Type),
		Message:        fmt.Sprintf("A client asked for a %s of the visit on %s.", req.Type, b.StartTime.Format(dateTimeLayout)),
		Data: map[string]any{
			"request_id": req.ID.String(),
			"booking_id": b.ID.String(),
			"type":       string(req.Type),
		},
		Audience: notification.ToBranchAdmins(b.BranchID),
	}
}

func changeRequestResolved(req *ChangeRequest, b *Booking) notification.Event {
	data := map[string]any{
		"request_id": req.ID.String(),
		"booking_id": b.ID.String(),
		"type":       string(req.Type),
		"status":     string(req.Status),
	}

	ev := notification.Event{
		OrganizationID: req.OrganizationID,
		Category:       category,
		Data:           data,
		Audience:       notification.ToClient(req.ClientID),
		Email:          true,
	}

	if req.Status == RequestApproved {
		ev.Type = "booking_change_approved"
		ev.Priority = notification.PriorityHigh

		switch req.Type {
		case RequestCancellation:
			ev.Title = "Visit cancelled"
			ev.Message = fmt.Sprintf("Your visit on %s has been cancelled as requested.", b.StartTime.Format(dateTimeLayout))
		case RequestReschedule:
			ev.Title = "Visit rescheduled"
			ev.Message = fmt.Sprintf("Your visit has been moved to %s.", b.StartTime.Format(dateTimeLayout))
			data["new_start"] = b.StartTime
		}

		return ev
	}

	ev.Type = "booking_change_rejected"
	ev.Priority = notification.PriorityWarning
	ev.Title = "Cancellation request declined"
	if req.Type == RequestReschedule {
		ev.Title = "Reschedule request declined"
	}

	ev.Message = fmt.Sprintf("Your %s request was declined.", req.Type)

	if req.AdminNotes != "" {
		ev.Message = fmt.Sprintf("Your %s request was declined: %s", req.Type, req.AdminNotes)
		data["reason"] = req.AdminNotes
	}

	return ev
}

func unavailabilityReported(req *UnavailabilityRequest, b *Booking) notification.Event {
	return notification.Event{
		OrganizationID: req.OrganizationID,
		Type:           "staff_unavailable",
		Category:       category,
		Priority:       notification.PriorityHigh,
		Title:          "Carer unavailable",
		Message:        fmt.Sprintf("A carer cannot attend the visit on %s.", b.StartTime.Format(dateTimeLayout)),
		Data: map[string]any{
			"request_id": req.ID.String(),
			"booking_id": b.ID.String(),
			"reason":     req.Reason,
		},
		Audience: notification.ToBranchAdmins(b.BranchID),
	}
}

func unavailabilityResolved(req *UnavailabilityRequest) notification.Event {
	ev := notification.Event{
		OrganizationID: req.OrganizationID,
		Type:           "unavailability_" + string(req.Status),
		Category:       category,
		Priority:       notification.PriorityNormal,
		Title:          "Unavailability approved",
		Message:        "Your unavailability was approved. The visit will be reassigned.",
		Data: map[string]any{
			"request_id": req.ID.String(),
			"booking_id": req.BookingID.String(),
			"status":     string(req.Status),
		},
		Audience: notification.ToUser(req.StaffID),
	}

	if req.Status == RequestRejected {
		ev.Priority = notification.PriorityWarning
		ev.Title = "Unavailability declined"
		ev.Message = "Your unavailability was declined. Please attend the visit."

		if req.AdminNotes != "" {
			ev.Message = "Your unavailability was declined: " + req.AdminNotes
			ev.Data["reason"] = req.AdminNotes
		}
	}

	return ev
}

func visitReassigned(b *Booking, newStaff uuid.UUID) notification.Event {
	return notification.Event{
		OrganizationID: b.OrganizationID,
		Type:           "booking_assigned",
		Category:       category,
		Priority:       notification.PriorityHigh,
		Title:          "New visit assigned",
		Message:        fmt.Sprintf("You have been assigned the visit on %s.", b.StartTime.Format(dateTimeLayout)),
		Data: map[string]any{
			"booking_id": b.ID.String(),
			"staff_id":   newStaff.String(),
		},
		Audience: notification.ToUser(newStaff),
		Email:    true,
	}
}

func visitAlert(b *Booking) notification.Event {
	ev := notification.Event{
		OrganizationID: b.OrganizationID,
		Type:           "visit_late_start",
		Category:       category,
		Priority:       notification.PriorityWarning,
		Title:          "Visit not started",
		Message:        fmt.Sprintf("The visit due at %s has not started.", b.StartTime.Format(dateTimeLayout)),
		Data: map[string]any{
			"booking_id": b.ID.String(),
		},
		Audience: notification.ToBranchAdmins(b.BranchID),
	}

	if b.Missed {
		ev.Type = "visit_missed"
		ev.Title = "Visit missed"
		ev.Message = fmt.Sprintf("The visit due at %s was missed.", b.StartTime.Format(dateTimeLayout))
	}

	return ev
}
