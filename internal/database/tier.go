package database

import (
	"primedrive-api/internal/models"
)

// ListTiers returns the tier catalog ordered by price
func ListTiers() ([]models.Tier, error) {
	var tiers []models.Tier
	err := DB.Order("price_pula ASC").Find(&tiers).Error
	return tiers, err
}

// GetTierByID gets a tier by primary key
func GetTierByID(id uint) (*models.Tier, error) {
	var tier models.Tier
	err := DB.First(&tier, id).Error
	if err != nil {
		return nil, err
	}
	return &tier, nil
}

// GetTierByName gets a tier by its unique name
func GetTierByName(name string) (*models.Tier, error) {
	var tier models.Tier
	err := DB.Where("name = ?", name).First(&tier).Error
	if err != nil {
		return nil, err
	}
	return &tier, nil
}
