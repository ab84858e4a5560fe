package cli

import (
	"fmt"
	"io"

	"github.com/terraincognita07/mealmate/internal/db"
	"github.com/terraincognita07/mealmate/internal/services"
	"gorm.io/gorm"
)

// RunSeedCatalogCommand inserts the built-in serving units that are missing.
func RunSeedCatalogCommand(database *gorm.DB, out io.Writer) error {
	created, err := services.NewServingUnitService(db.NewRepositories(database).ServingUnits).SeedDefaultServingUnits()
	if err != nil {
		return fmt.Errorf("seed serving units: %w", err)
	}
	fmt.Fprintf(out, "Seeded %d serving units.\n", created)
	return nil
}
