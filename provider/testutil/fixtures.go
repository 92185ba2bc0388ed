package testutil

import (
	"time"

	"pricepilot/model"
)

// TestHistory returns a short prior conversation.
func TestHistory() []model.Message {
	now := time.Now()
	return []model.Message{
		model.NewMessage(model.RoleUser, "What was my occupancy last weekend?", now),
		model.NewMessage(model.RoleAssistant, "Occupancy was 92% on Saturday.", now.Add(time.Second)),
	}
}

// TestProfile returns a complete business profile.
func TestProfile() *model.BusinessProfile {
	return &model.BusinessProfile{
		Name:     "Harbor View Inn",
		City:     "Lisbon",
		Country:  "Portugal",
		Currency: "EUR",
	}
}

// TestDatasets returns two uploaded datasets totalling 1500 rows.
func TestDatasets() []model.Dataset {
	return []model.Dataset{
		{ID: "ds-1", Name: "bookings-2024.csv", RowCount: 1200, UploadedAt: time.Now().Add(-time.Hour)},
		{ID: "ds-2", Name: "bookings-2025.csv", RowCount: 300, UploadedAt: time.Now()},
	}
}
