package services

import (
	"errors"
	"fmt"

	"github.com/terraincognita07/mealmate/internal/models"
)

var (
	ErrServingUnitNotFound  = fmt.Errorf("serving unit %w", ErrNotFound)
	ErrServingUnitNameTaken = errors.New("serving unit name taken")
	ErrServingUnitInUse     = errors.New("serving unit in use")
)

type ServingUnitRepository interface {
	List() ([]models.ServingUnit, error)
	FindByID(unitID uint) (models.ServingUnit, bool, error)
	CountByIDs(ids []uint) (int64, error)
	ExistsByName(name string, excludeID uint) (bool, error)
	CountReferences(unitID uint) (int64, error)
	Create(unit *models.ServingUnit) error
	CreateBatch(units []models.ServingUnit) error
	Save(unit *models.ServingUnit) error
	Delete(unitID uint) error
}

type ServingUnitService struct {
	units ServingUnitRepository
}

func NewServingUnitService(units ServingUnitRepository) *ServingUnitService {
	return &ServingUnitService{units: units}
}

func (service *ServingUnitService) ListServingUnits() ([]models.ServingUnit, error) {
	return service.units.List()
}

func (service *ServingUnitService) FindServingUnit(unitID uint) (models.ServingUnit, error) {
	unit, found, err := service.units.FindByID(unitID)
	if err != nil {
		return models.ServingUnit{}, fmt.Errorf("load serving unit: %w", err)
	}
	if !found {
		return models.ServingUnit{}, ErrServingUnitNotFound
	}
	return unit, nil
}

func (service *ServingUnitService) CreateServingUnit(rawName string) (models.ServingUnit, error) {
	name, err := service.validateName(rawName, 0)
	if err != nil {
		return models.ServingUnit{}, err
	}
	unit := models.ServingUnit{Name: name}
	if err := service.units.Create(&unit); err != nil {
		return models.ServingUnit{}, fmt.Errorf("create serving unit: %w", err)
	}
	return unit, nil
}

func (service *ServingUnitService) UpdateServingUnit(unitID uint, rawName string) (models.ServingUnit, error) {
	unit, err := service.FindServingUnit(unitID)
	if err != nil {
		return models.ServingUnit{}, err
	}
	name, err := service.validateName(rawName, unitID)
	if err != nil {
		return models.ServingUnit{}, err
	}
	unit.Name = name
	if err := service.units.Save(&unit); err != nil {
		return models.ServingUnit{}, fmt.Errorf("update serving unit: %w", err)
	}
	return unit, nil
}

// DeleteServingUnit refuses while a food or a meal line item still points at the unit.
func (service *ServingUnitService) DeleteServingUnit(unitID uint) error {
	if _, err := service.FindServingUnit(unitID); err != nil {
		return err
	}
	references, err := service.units.CountReferences(unitID)
	if err != nil {
		return fmt.Errorf("count serving unit references: %w", err)
	}
	if references > 0 {
		return ErrServingUnitInUse
	}
	if err := service.units.Delete(unitID); err != nil {
		return fmt.Errorf("delete serving unit: %w", err)
	}
	return nil
}

// SeedDefaultServingUnits inserts the built-in units that are missing and
// reports how many were created.
func (service *ServingUnitService) SeedDefaultServingUnits() (int, error) {
	existing, err := service.units.List()
	if err != nil {
		return 0, fmt.Errorf("list serving units: %w", err)
	}
	present := make(map[string]struct{}, len(existing))
	for _, unit := range existing {
		present[unit.Name] = struct{}{}
	}

	missing := make([]models.ServingUnit, 0)
	for _, builtin := range models.DefaultServingUnits() {
		if _, ok := present[builtin.Name]; ok {
			continue
		}
		missing = append(missing, models.ServingUnit{Name: builtin.Name})
	}
	if err := service.units.CreateBatch(missing); err != nil {
		return 0, fmt.Errorf("seed serving units: %w", err)
	}
	return len(missing), nil
}

func (service *ServingUnitService) validateName(rawName string, excludeID uint) (string, error) {
	name, err := validateCatalogName(rawName)
	if err != nil {
		return "", err
	}
	taken, err := service.units.ExistsByName(name, excludeID)
	if err != nil {
		return "", fmt.Errorf("check serving unit name: %w", err)
	}
	if taken {
		return "", ErrServingUnitNameTaken
	}
	return name, nil
}
