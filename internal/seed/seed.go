// internal/seed/seed.go
package seed

import (
	"context"
	"log"

	"github.com/gonzalezcreative/directoryv7/internal/repository"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

func SeedData(repos *repository.Repositories) {
	ctx := context.Background()

	// Check if data already exists
	existing, _ := repos.LeadRepo.FindAvailable(ctx)
	if len(existing) > 0 {
		log.Println("[Seed] Data already exists, skipping...")
		return
	}

	log.Println("[Seed] 🌱 Creating initial data...")

	// ============================================
	// CREATE DEMO BUYER
	// ============================================
	password, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)

	demo := &repository.User{
		Email:    "demo@rentalleads.dev",
		Password: string(password),
		Name:     "Demo Buyer",
		Status:   "online",
	}
	repos.UserRepo.Create(ctx, demo)

	log.Printf("✅ Created demo buyer: %s", demo.Email)

	// ============================================
	// CREATE SAMPLE LEADS (one per category)
	// ============================================
	leads := []*repository.Lead{
		{
			Category:       "construction",
			EquipmentTypes: []string{"Excavator", "Skid Steer"},
			City:           "Denver, CO",
			StartDate:      "2026-09-15",
			RentalDuration: "2 weeks",
			Budget:         decimal.NewFromInt(4500),
			Name:           "Ray Thompson",
			Email:          "ray.thompson@example.com",
			Phone:          "303-555-0142",
			Street:         "1180 Osage St",
			ZipCode:        "80204",
			Details:        "Foundation dig for a duplex, tight lot access from the alley.",
		},
		{
			Category:       "landscaping",
			EquipmentTypes: []string{"Stump Grinder", "Mini Excavator"},
			City:           "Austin, TX",
			StartDate:      "2026-09-08",
			RentalDuration: "3 days",
			Budget:         decimal.NewFromInt(900),
			Name:           "Priya Natarajan",
			Email:          "priya.n@example.com",
			Phone:          "512-555-0188",
			Details:        "Clearing six oak stumps before a backyard regrade.",
		},
		{
			Category:       "events",
			EquipmentTypes: []string{"Stage Deck", "Generator"},
			City:           "Nashville, TN",
			StartDate:      "2026-10-02",
			RentalDuration: "1 weekend",
			Budget:         decimal.NewFromInt(2200),
			Name:           "Caleb Wright",
			Email:          "caleb@wrightevents.example.com",
			Phone:          "615-555-0107",
			Street:         "410 Broadway",
			ZipCode:        "37203",
			Details:        "Outdoor charity concert, need quiet-run generator for the mixing desk.",
		},
		{
			Category:       "industrial",
			EquipmentTypes: []string{"Forklift", "Scissor Lift"},
			City:           "Toledo, OH",
			StartDate:      "2026-09-20",
			RentalDuration: "1 month",
			Budget:         decimal.NewFromInt(6800),
			Name:           "Irene Kovacs",
			Email:          "i.kovacs@example.com",
			Phone:          "419-555-0173",
			Details:        "Warehouse rack install, 24 ft reach required.",
		},
		{
			Category:       "restoration",
			EquipmentTypes: []string{"Dehumidifier", "Air Scrubber"},
			City:           "Tampa, FL",
			StartDate:      "2026-09-05",
			RentalDuration: "10 days",
			Budget:         decimal.NewFromInt(1400),
			Name:           "Marcus Bell",
			Email:          "marcus.bell@example.com",
			Phone:          "813-555-0129",
			Street:         "2811 N Tampa St",
			ZipCode:        "33602",
			Details:        "Water damage dry-out across two floors after a burst supply line.",
		},
	}

	for _, lead := range leads {
		if err := repos.LeadRepo.Create(ctx, lead); err != nil {
			log.Printf("[Seed] Error creating lead (%s): %v", lead.Category, err)
		}
	}

	log.Printf("✅ Created %d sample leads", len(leads))

	// ============================================
	// PURCHASE ONE LEAD FOR THE DEMO BUYER
	// Gives the purchased view something to show on first login
	// ============================================
	if demo.ID != "" && len(leads) > 0 {
		if err := repos.LeadRepo.Purchase(ctx, leads[0].ID, demo.ID); err != nil {
			log.Printf("[Seed] Error purchasing sample lead: %v", err)
		} else {
			repos.LeadRepo.UpdateStatus(ctx, leads[0].ID, demo.ID, "Contacted")
			log.Printf("✅ Demo buyer owns lead %s", leads[0].ID)
		}
	}

	log.Println("[Seed] 🌱 Seed complete")
}
