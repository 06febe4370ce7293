package appointment

import (
	"time"

	"github.com/klinik/clinic-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Cancel(ap *models.Appointment, now time.Time) error {
	if err := CanCancel(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCancelled)
	ap.CancelledAt = &now
	return nil
}

func Confirm(ap *models.Appointment) error {
	if err := CanConfirm(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusConfirmed)
	return nil
}

// MarkPaid completes the appointment as part of recording its payment.
func MarkPaid(ap *models.Appointment, now time.Time) error {
	if err := CanPay(Status(ap.Status), ap.PaymentStatus); err != nil {
		return err
	}

	ap.Status = string(StatusCompleted)
	ap.PaymentStatus = true
	ap.CompletedAt = &now
	return nil
}
