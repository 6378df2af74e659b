package config

import (
	"log"

	"medcredhub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// SeedMasterData seeds initial master data
func SeedMasterData(db *gorm.DB) error {
	// Seed state CME requirements
	if err := seedStateRequirements(db); err != nil {
		return err
	}

	// Seed CPT codes
	if err := seedCPTCodes(db); err != nil {
		return err
	}

	log.Println("✅ Master data seeded successfully")
	return nil
}

// seedStateRequirements seeds the per-(state, degree) CME rules. States
// without a DO row share the MD rule; TotalHours 0 marks states with no
// general hour requirement.
func seedStateRequirements(db *gorm.DB) error {
	var count int64
	db.Model(&models.StateRequirement{}).Count(&count)
	if count > 0 {
		return nil // Already seeded
	}

	requirements := []models.StateRequirement{
		{
			State: "AL", Degree: "MD", TotalHours: 25, CycleYears: 1,
			Category1Minimum: 25, IsActive: true,
		},
		{
			State: "CA", Degree: "MD", TotalHours: 50, CycleYears: 2,
			IsActive: true,
			Topics: []models.TopicRequirement{
				{Topic: "Pain Management", RequiredHours: 12, Note: "One-time requirement"},
			},
		},
		{
			State: "CO", Degree: "MD", TotalHours: 0, CycleYears: 2,
			IsActive: true, // No general CME requirement
		},
		{
			State: "FL", Degree: "MD", TotalHours: 40, CycleYears: 2,
			IsActive: true,
			Topics: []models.TopicRequirement{
				{Topic: "Prevention of Medical Errors", RequiredHours: 2},
				{Topic: "Domestic Violence", RequiredHours: 2, Note: "Every third renewal"},
			},
		},
		{
			State: "FL", Degree: "DO", TotalHours: 40, CycleYears: 2,
			Category1Minimum: 20, IsActive: true,
			Topics: []models.TopicRequirement{
				{Topic: "Prevention of Medical Errors", RequiredHours: 2},
				{Topic: "Florida Laws and Rules", RequiredHours: 1},
			},
		},
		{
			State: "GA", Degree: "MD", TotalHours: 40, CycleYears: 2,
			IsActive: true,
		},
		{
			State: "IL", Degree: "MD", TotalHours: 150, CycleYears: 3,
			Category1Minimum: 60, IsActive: true,
		},
		{
			State: "MI", Degree: "MD", TotalHours: 150, CycleYears: 3,
			Category1Minimum: 75, IsActive: true,
			Topics: []models.TopicRequirement{
				{Topic: "Pain and Symptom Management", RequiredHours: 3},
			},
		},
		{
			State: "MI", Degree: "DO", TotalHours: 150, CycleYears: 3,
			Category1Minimum: 60, IsActive: true,
			Topics: []models.TopicRequirement{
				{Topic: "Pain and Symptom Management", RequiredHours: 3},
			},
		},
		{
			State: "NJ", Degree: "MD", TotalHours: 100, CycleYears: 2,
			IsActive: true,
			Topics: []models.TopicRequirement{
				{Topic: "Cultural Competency", RequiredHours: 6, Note: "One-time requirement"},
			},
		},
		{
			State: "NY", Degree: "MD", TotalHours: 0, CycleYears: 2,
			IsActive: true, // No general hour requirement, topic mandates only
			Topics: []models.TopicRequirement{
				{Topic: "Infection Control", RequiredHours: 2, Note: "Every four years"},
				{Topic: "Child Abuse Identification", RequiredHours: 2, Note: "One-time requirement"},
			},
		},
		{
			State: "OH", Degree: "MD", TotalHours: 50, CycleYears: 2,
			Category1Minimum: 25, IsActive: true,
		},
		{
			State: "PA", Degree: "MD", TotalHours: 100, CycleYears: 2,
			Category1Minimum: 20, IsActive: true,
			Topics: []models.TopicRequirement{
				{Topic: "Patient Safety", RequiredHours: 12},
				{Topic: "Child Abuse Recognition", RequiredHours: 2},
			},
		},
		{
			State: "PA", Degree: "DO", TotalHours: 100, CycleYears: 2,
			Category1Minimum: 20, IsActive: true,
			Topics: []models.TopicRequirement{
				{Topic: "Patient Safety", RequiredHours: 12},
				{Topic: "Child Abuse Recognition", RequiredHours: 2},
			},
		},
		{
			State: "TX", Degree: "MD", TotalHours: 48, CycleYears: 2,
			Category1Minimum: 24, IsActive: true,
			Topics: []models.TopicRequirement{
				{Topic: "Medical Ethics", RequiredHours: 2},
				{Topic: "Human Trafficking Prevention", RequiredHours: 1},
			},
		},
		{
			State: "WA", Degree: "MD", TotalHours: 200, CycleYears: 4,
			IsActive: true,
			Topics: []models.TopicRequirement{
				{Topic: "Suicide Prevention", RequiredHours: 6, Note: "One-time requirement"},
			},
		},
	}

	for _, req := range requirements {
		if err := db.Create(&req).Error; err != nil {
			return err
		}
	}

	log.Printf("✅ Seeded %d state CME requirements", len(requirements))
	return nil
}

// seedCPTCodes seeds a starter set of common procedure codes for the
// fuzzy search endpoint
func seedCPTCodes(db *gorm.DB) error {
	var count int64
	db.Model(&models.CPTCode{}).Count(&count)
	if count > 0 {
		return nil // Already seeded
	}

	codes := []models.CPTCode{
		{Code: "99203", Description: "Office visit, new patient, low complexity", Category: "Evaluation & Management", IsActive: true},
		{Code: "99204", Description: "Office visit, new patient, moderate complexity", Category: "Evaluation & Management", IsActive: true},
		{Code: "99213", Description: "Office visit, established patient, low complexity", Category: "Evaluation & Management", IsActive: true},
		{Code: "99214", Description: "Office visit, established patient, moderate complexity", Category: "Evaluation & Management", IsActive: true},
		{Code: "99215", Description: "Office visit, established patient, high complexity", Category: "Evaluation & Management", IsActive: true},
		{Code: "99223", Description: "Initial hospital care, high complexity", Category: "Evaluation & Management", IsActive: true},
		{Code: "99232", Description: "Subsequent hospital care, moderate complexity", Category: "Evaluation & Management", IsActive: true},
		{Code: "99285", Description: "Emergency department visit, high complexity", Category: "Evaluation & Management", IsActive: true},
		{Code: "36415", Description: "Collection of venous blood by venipuncture", Category: "Procedures", IsActive: true},
		{Code: "12001", Description: "Simple repair of superficial wounds, 2.5 cm or less", Category: "Procedures", IsActive: true},
		{Code: "29125", Description: "Application of short arm splint", Category: "Procedures", IsActive: true},
		{Code: "71046", Description: "Chest X-ray, 2 views", Category: "Radiology", IsActive: true},
		{Code: "93000", Description: "Electrocardiogram, complete", Category: "Cardiology", IsActive: true},
		{Code: "80053", Description: "Comprehensive metabolic panel", Category: "Laboratory", IsActive: true},
		{Code: "85025", Description: "Complete blood count with differential", Category: "Laboratory", IsActive: true},
		{Code: "90471", Description: "Immunization administration, one vaccine", Category: "Immunization", IsActive: true},
	}

	if err := db.CreateInBatches(codes, 100).Error; err != nil {
		return err
	}

	log.Printf("✅ Seeded %d CPT codes", len(codes))
	return nil
}
