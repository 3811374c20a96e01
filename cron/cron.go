package cron

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/praxismed/praxis-scheduler/db"
	"github.com/praxismed/praxis-scheduler/models"
	"github.com/praxismed/praxis-scheduler/utils"
)

// StartCronJobs initializes and starts the cron scheduler for
// appointment reminders and stale-booking cleanup
func StartCronJobs() {
	c := cron.New()
	// Run every minute to check for appointments in the next hour
	if _, err := c.AddFunc("* * * * *", sendAppointmentReminders); err != nil {
		log.Fatalf("Failed to add reminder cron job: %v", err)
	}
	// Nightly: complete confirmed appointments whose end time passed
	if _, err := c.AddFunc("30 2 * * *", closePastAppointments); err != nil {
		log.Fatalf("Failed to add cleanup cron job: %v", err)
	}
	c.Start()
	log.Println("Cron job scheduler started")
}

// sendAppointmentReminders checks for appointments and sends reminders
func sendAppointmentReminders() {
	var appointments []models.Appointment
	now := time.Now()
	// Look for appointments starting in the next hour
	startWindow := now.Add(55 * time.Minute)
	endWindow := now.Add(65 * time.Minute)

	err := db.DB.Preload("Patient").Preload("Doctor").
		Where("status = ? AND start_time BETWEEN ? AND ?", models.StatusConfirmed, startWindow, endWindow).
		Find(&appointments).Error
	if err != nil {
		log.Printf("Error fetching appointments for reminders: %v", err)
		return
	}

	for _, appointment := range appointments {
		if appointment.Patient.Email == "" {
			continue
		}
		if err := sendReminderEmail(&appointment); err != nil {
			log.Printf("Failed to send reminder for appointment %d: %v", appointment.ID, err)
			continue
		}
		log.Printf("Sent reminder for appointment %d to %s", appointment.ID, appointment.Patient.Email)
	}
}

// sendReminderEmail constructs and sends the reminder email
func sendReminderEmail(appointment *models.Appointment) error {
	loc := utils.PracticeLocation()
	subject := fmt.Sprintf("Reminder: Upcoming Appointment - %s", appointment.Title)
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>This is a reminder for your upcoming appointment scheduled in one hour.</p>
		<p><strong>Details:</strong></p>
		<ul>
			<li><strong>Doctor:</strong> %s</li>
			<li><strong>Start Time:</strong> %s</li>
			<li><strong>End Time:</strong> %s</li>
		</ul>
		<p>Please arrive on time. If you need to reschedule or cancel, contact the practice as soon as possible.</p>
		<p>Best regards,</p>
		<p>Your practice team</p>
	`, appointment.Patient.DisplayName(), appointment.Doctor.DisplayName(),
		appointment.StartTime.In(loc).Format("02.01.2006 15:04"),
		appointment.EndTime.In(loc).Format("02.01.2006 15:04"))

	return utils.SendEmail(appointment.Patient.Email, subject, body)
}

// closePastAppointments marks confirmed appointments as completed once
// their end time has passed. Pending ones that were never confirmed are
// canceled.
func closePastAppointments() {
	now := time.Now()
	res := db.DB.Model(&models.Appointment{}).
		Where("status = ? AND end_time < ?", models.StatusConfirmed, now).
		Update("status", models.StatusCompleted)
	if res.Error != nil {
		log.Printf("Error completing past appointments: %v", res.Error)
	} else if res.RowsAffected > 0 {
		log.Printf("Completed %d past appointments", res.RowsAffected)
	}

	res = db.DB.Model(&models.Appointment{}).
		Where("status = ? AND end_time < ?", models.StatusPending, now).
		Update("status", models.StatusCanceled)
	if res.Error != nil {
		log.Printf("Error canceling stale pending appointments: %v", res.Error)
	} else if res.RowsAffected > 0 {
		log.Printf("Canceled %d stale pending appointments", res.RowsAffected)
	}
}
