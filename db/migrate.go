package db

import (
	"fmt"
	"log"
	"strings"

	"github.com/praxismed/praxis-scheduler/models"
)

// Migrate runs AutoMigrate for the full schema and seeds the practice
// roles. Requires Init to have run.
func Migrate() {
	err := DB.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Permission{},
		&models.Patient{},
		&models.Resource{},
		&models.PracticeHours{},
		&models.DoctorHours{},
		&models.DoctorAbsence{},
		&models.DoctorBreak{},
		&models.Appointment{},
		&models.AppointmentResource{},
		&models.Operation{},
		&models.OperationDevice{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}

	seedRoles()
	seedPermissions()

	fmt.Println("✅ Migrations applied successfully!")
}

// seedRoles creates the practice roles if they do not exist yet.
func seedRoles() {
	roles := []models.Role{
		{Name: "admin", Description: "Administrator with full access"},
		{Name: "doctor", Description: "Doctor who owns a calendar and performs operations"},
		{Name: "receptionist", Description: "Front desk staff who manage the schedule"},
	}
	for _, role := range roles {
		var existing models.Role
		if DB.Where("name = ?", role.Name).First(&existing).RowsAffected == 0 {
			DB.Create(&role)
		}
	}
}

// seedPermissions creates the CRUD permission grid and grants it to the
// practice roles. Admin holds everything; doctors work their own
// calendar; receptionists run the schedule but do not delete patients.
func seedPermissions() {
	grants := map[string][]string{
		"admin": {
			"appointments:create", "appointments:read", "appointments:update", "appointments:delete",
			"operations:create", "operations:read", "operations:update", "operations:delete",
			"schedule:read", "schedule:update",
			"patients:create", "patients:read", "patients:update", "patients:delete",
		},
		"doctor": {
			"appointments:create", "appointments:read", "appointments:update", "appointments:delete",
			"operations:create", "operations:read", "operations:update", "operations:delete",
			"schedule:read", "schedule:update",
			"patients:read",
		},
		"receptionist": {
			"appointments:create", "appointments:read", "appointments:update", "appointments:delete",
			"operations:create", "operations:read", "operations:update", "operations:delete",
			"schedule:read", "schedule:update",
			"patients:create", "patients:read", "patients:update",
		},
	}

	for roleName, perms := range grants {
		var role models.Role
		if err := DB.Preload("Permissions").Where("name = ?", roleName).First(&role).Error; err != nil {
			log.Printf("seed: role %s not found: %v", roleName, err)
			continue
		}
		held := map[string]bool{}
		for _, p := range role.Permissions {
			held[p.Name] = true
		}
		for _, name := range perms {
			if held[name] {
				continue
			}
			parts := strings.SplitN(name, ":", 2)
			perm := models.Permission{Name: name, Resource: parts[0], Action: parts[1]}
			var existing models.Permission
			if DB.Where("name = ?", name).First(&existing).RowsAffected > 0 {
				perm = existing
			} else if err := DB.Create(&perm).Error; err != nil {
				log.Printf("seed: failed to create permission %s: %v", name, err)
				continue
			}
			if err := DB.Model(&role).Association("Permissions").Append(&perm); err != nil {
				log.Printf("seed: failed to grant %s to %s: %v", name, roleName, err)
			}
		}
	}
}
