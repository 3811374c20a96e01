package models

import (
	"gorm.io/gorm"
)

type ResourceType string

const (
	ResourceRoom   ResourceType = "room"
	ResourceDevice ResourceType = "device"
)

// Resource is a bookable room or device of the practice.
type Resource struct {
	gorm.Model
	Name   string       `json:"name"`
	Type   ResourceType `json:"type"`
	Active bool         `json:"active" gorm:"default:true"`
}
