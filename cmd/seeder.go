package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		db, err := initORM(sqlDB)
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		if clearData {
			for _, table := range []string{"egresos", "presupuestos_mensuales", "categorias", "tipo_egreso", "usuarios"} {
				if err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
					log.Fatalf("failed to clear table %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		password := "password123"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), cfg.Security.BCryptCost)

		demoEmail := "demo@egresos.app"
		var exists int
		demoExists := false
		if err := db.Raw("SELECT 1 FROM usuarios WHERE email = ?", demoEmail).Row().Scan(&exists); err == nil {
			fmt.Println("demo user already exists")
			demoExists = true
		}

		if !demoExists {
			if err := db.Exec(
				"INSERT INTO usuarios (email, password, nombre, apellido, activo, created_at, updated_at) VALUES (?, ?, ?, ?, true, now(), now())",
				demoEmail, string(hash), "Demo", "Usuario").Error; err != nil {
				log.Fatalf("failed to insert demo user: %v", err)
			}
			fmt.Println("Seeded demo user:", demoEmail)
		}

		tipos := []struct {
			Nombre string
			Desc   string
		}{
			{"Fijo", "Egresos recurrentes de monto estable"},
			{"Variable", "Egresos que cambian mes a mes"},
			{"Ocasional", "Egresos no planificados"},
		}

		for _, t := range tipos {
			var tid int64
			if err := db.Raw("SELECT id FROM tipo_egreso WHERE nombre = ?", t.Nombre).Row().Scan(&tid); err != nil {
				if err := db.Exec("INSERT INTO tipo_egreso (nombre, descripcion, created_at) VALUES (?, ?, now())", t.Nombre, t.Desc).Error; err != nil {
					log.Fatalf("failed to insert tipo de egreso %s: %v", t.Nombre, err)
				}
				fmt.Printf("Seeded tipo de egreso: %s\n", t.Nombre)
			}
		}

		categorias := []struct {
			Nombre string
			Tipo   string
			Color  string
			Icono  string
		}{
			{"Arriendo", "Fijo", "#EF4444", "home-outline"},
			{"Servicios públicos", "Fijo", "#F59E0B", "flash-outline"},
			{"Internet y telefonía", "Fijo", "#3B82F6", "wifi-outline"},
			{"Mercado", "Variable", "#10B981", "cart-outline"},
			{"Transporte", "Variable", "#6366F1", "bus-outline"},
			{"Salud", "Ocasional", "#EC4899", "medkit-outline"},
			{"Entretenimiento", "Ocasional", "#8B5CF6", "game-controller-outline"},
		}

		for _, c := range categorias {
			var tid int64
			if err := db.Raw("SELECT id FROM tipo_egreso WHERE nombre = ?", c.Tipo).Row().Scan(&tid); err != nil {
				log.Fatalf("tipo de egreso not found for category %s: %v", c.Nombre, err)
			}

			var exists int
			if err := db.Raw("SELECT 1 FROM categorias WHERE nombre = ?", c.Nombre).Row().Scan(&exists); err != nil {
				if err := db.Exec(
					"INSERT INTO categorias (nombre, tipo_egreso_id, color, icono, created_at) VALUES (?, ?, ?, ?, now())",
					c.Nombre, tid, c.Color, c.Icono).Error; err != nil {
					log.Fatalf("failed to insert category %s: %v", c.Nombre, err)
				}
				fmt.Printf("Seeded category: %s\n", c.Nombre)
			}
		}

		fmt.Println("Seed data loaded successfully")
	},
}
