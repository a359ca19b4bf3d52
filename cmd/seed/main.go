package main

import (
	"context"

	"github.com/quality-audit/backend/internal/config"
	"github.com/quality-audit/backend/internal/db"
	"github.com/quality-audit/backend/internal/models"
	"github.com/quality-audit/backend/internal/repositories"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Seeds the initial users and the 15-item measurement plan checklist.
// Safe to run repeatedly; everything is upserted.

type seedUser struct {
	name     string
	email    string
	password string
	role     string
}

var seedUsers = []seedUser{
	{"John Silva", "auditor@quality.example.com", "audit123", models.RoleAuditor},
	{"Maria Santos", "manager@quality.example.com", "manage123", models.RoleQualityManager},
	{"Carl Oliver", "viewer@quality.example.com", "view123", models.RoleViewer},
}

var seedItems = []models.ChecklistItem{
	// BLOCK 1
	{Code: "1", Title: "Objective Clarity", Description: "Were the measurement objectives defined in a clear and understandable way?", Category: "BLOCK 1 - Establishing Measurement Objectives", SortOrder: 1},
	{Code: "2", Title: "Meeting Information Needs", Description: "Do these objectives actually meet the information needs of the project?", Category: "BLOCK 1 - Establishing Measurement Objectives", SortOrder: 2},
	{Code: "3", Title: "Strategic Alignment", Description: "Are the measurement objectives aligned with the strategic objectives of the organization?", Category: "BLOCK 1 - Establishing Measurement Objectives", SortOrder: 3},
	{Code: "4", Title: "Process Recorded", Description: "Was the objective definition process properly recorded?", Category: "BLOCK 1 - Establishing Measurement Objectives", SortOrder: 4},
	// BLOCK 2
	{Code: "5", Title: "Measure Suitability", Description: "Do the chosen measures (base and derived) make sense for the defined objectives?", Category: "BLOCK 2 - Specifying Measures", SortOrder: 5},
	{Code: "6", Title: "Operational Definition", Description: "Does each measure have a clear and repeatable operational definition?", Category: "BLOCK 2 - Specifying Measures", SortOrder: 6},
	{Code: "7", Title: "Units and Calculations", Description: "Are the measurement units and calculation methods correctly defined?", Category: "BLOCK 2 - Specifying Measures", SortOrder: 7},
	{Code: "8", Title: "Documentation and Communication", Description: "Were the measures documented and communicated to the responsible parties?", Category: "BLOCK 2 - Specifying Measures", SortOrder: 8},
	// BLOCK 3
	{Code: "9", Title: "Data Source Identification", Description: "Are the data sources needed for collection clearly identified?", Category: "BLOCK 3 - Data Collection and Storage", SortOrder: 9},
	{Code: "10", Title: "Collection Procedure", Description: "Is there a consistent procedure for collecting the measurements?", Category: "BLOCK 3 - Data Collection and Storage", SortOrder: 10},
	{Code: "11", Title: "Assigned Responsibilities", Description: "Are the responsibilities for collection and storage assigned and documented?", Category: "BLOCK 3 - Data Collection and Storage", SortOrder: 11},
	{Code: "12", Title: "Control and Security", Description: "Is there adequate control over the security, organization and freshness of the collected data?", Category: "BLOCK 3 - Data Collection and Storage", SortOrder: 12},
	// BLOCK 4
	{Code: "13", Title: "Analysis Procedures", Description: "Are the procedures for analyzing the measurements well defined?", Category: "BLOCK 4 - Analysis, Interpretation and Communication", SortOrder: 13},
	{Code: "14", Title: "Result Presentation", Description: "Are the measurement results analyzed and presented clearly to stakeholders?", Category: "BLOCK 4 - Analysis, Interpretation and Communication", SortOrder: 14},
	{Code: "15", Title: "Timeliness and Format", Description: "Does the communication of analyses happen within the agreed deadline and format?", Category: "BLOCK 4 - Analysis, Interpretation and Communication", SortOrder: 15},
}

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()

	ctx := context.Background()

	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool, "migrations", log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	userRepo := repositories.NewUserRepo(pool)
	checklistRepo := repositories.NewChecklistRepo(pool)

	for _, su := range seedUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(su.password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal("failed to hash password", zap.Error(err))
		}
		u := models.User{
			Name:         su.name,
			Email:        su.email,
			PasswordHash: string(hash),
			Role:         su.role,
		}
		if err := userRepo.Upsert(ctx, &u); err != nil {
			log.Fatal("failed to seed user", zap.String("email", su.email), zap.Error(err))
		}
		log.Info("seeded user", zap.String("email", u.Email), zap.String("role", u.Role))
	}

	for i := range seedItems {
		if err := checklistRepo.Upsert(ctx, &seedItems[i]); err != nil {
			log.Fatal("failed to seed checklist item", zap.String("code", seedItems[i].Code), zap.Error(err))
		}
	}
	log.Info("seeded checklist items", zap.Int("count", len(seedItems)))
}
