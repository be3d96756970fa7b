package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	commentDatamodel "github.com/frahmantamala/contract-portal/internal/core/datamodel/comment"
	contractDatamodel "github.com/frahmantamala/contract-portal/internal/core/datamodel/contract"
	permissionDatamodel "github.com/frahmantamala/contract-portal/internal/core/datamodel/permission"
	userDatamodel "github.com/frahmantamala/contract-portal/internal/core/datamodel/user"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	clearData    bool
	seedPassword string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample users, contracts and grants for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		gdb, err := initGorm(db, cfg.Env)
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), cfg.Security.BCryptCost)
		if err != nil {
			log.Fatalf("failed to hash seed password: %v", err)
		}

		if clearData {
			if err := clearSeedData(gdb); err != nil {
				log.Fatalf("failed to clear data: %v", err)
			}
			fmt.Println("Cleared existing data")
		}

		if err := seedData(gdb, string(hash), os.Stdout); err != nil {
			log.Fatalf("failed to seed: %v", err)
		}
	},
}

type seedUser struct {
	Email   string
	Name    string
	Role    string
	Company string
}

var seedUsers = []seedUser{
	{Email: "admin@portal.test", Name: "Portal Admin", Role: "admin"},
	{Email: "acme@client.test", Name: "Acme Buyer", Role: "client", Company: "Acme Corp"},
	{Email: "globex@client.test", Name: "Globex Buyer", Role: "client", Company: "Globex Ltd"},
	{Email: "priya@portal.test", Name: "Priya Sharma", Role: "employee"},
	{Email: "arjun@portal.test", Name: "Arjun Mehta", Role: "employee"},
}

type seedContract struct {
	Name     string
	Client   string
	Assigned string
	Status   string
	Start    string
	End      string
	Value    string
	Grants   []string
}

var seedContracts = []seedContract{
	{Name: "Office lease renewal", Client: "acme@client.test", Assigned: "priya@portal.test", Status: "active",
		Start: "2024-01-01", End: "2024-12-31", Value: "120000.00", Grants: []string{"priya@portal.test"}},
	{Name: "Fleet maintenance", Client: "acme@client.test", Status: "in_progress",
		Start: "2024-03-01", End: "2024-06-30", Value: "45500.50", Grants: []string{"priya@portal.test", "arjun@portal.test"}},
	{Name: "Warehouse audit", Client: "globex@client.test", Assigned: "arjun@portal.test", Status: "draft",
		Grants: []string{"arjun@portal.test"}},
	{Name: "Logistics software licence", Client: "globex@client.test", Status: "completed",
		Start: "2023-01-01", End: "2023-12-31", Value: "9800.00"},
}

// seedData is idempotent: users are keyed by email, contracts by name and grants by
// the (employee, contract) pair.
func seedData(db *gorm.DB, passwordHash string, out io.Writer) error {
	return db.Transaction(func(tx *gorm.DB) error {
		ids := make(map[string]int64, len(seedUsers))
		for _, su := range seedUsers {
			row := userDatamodel.User{
				Email:        su.Email,
				Name:         su.Name,
				PasswordHash: passwordHash,
				Role:         su.Role,
				IsActive:     true,
			}
			if su.Company != "" {
				company := su.Company
				row.CompanyName = &company
			}
			res := tx.Where("email = ?", su.Email).FirstOrCreate(&row)
			if res.Error != nil {
				return fmt.Errorf("seed user %s: %w", su.Email, res.Error)
			}
			if res.RowsAffected > 0 {
				fmt.Fprintf(out, "Seeded %s user: %s\n", su.Role, su.Email)
			}
			ids[su.Email] = row.ID
		}

		adminID := ids["admin@portal.test"]
		for _, sc := range seedContracts {
			row, err := sc.row(ids, adminID)
			if err != nil {
				return err
			}
			res := tx.Where("name = ?", sc.Name).FirstOrCreate(row)
			if res.Error != nil {
				return fmt.Errorf("seed contract %s: %w", sc.Name, res.Error)
			}
			if res.RowsAffected > 0 {
				fmt.Fprintf(out, "Seeded contract: %s\n", sc.Name)
			}

			for _, email := range sc.Grants {
				grant := permissionDatamodel.EmployeePermission{
					EmployeeID: ids[email],
					ContractID: row.ID,
					CanRead:    true,
					CanWrite:   sc.Assigned == email,
					GrantedBy:  &adminID,
				}
				err := tx.Where("employee_id = ? AND contract_id = ?", grant.EmployeeID, grant.ContractID).
					FirstOrCreate(&grant).Error
				if err != nil {
					return fmt.Errorf("seed grant %s on %s: %w", email, sc.Name, err)
				}
			}
		}

		fmt.Fprintln(out, "Seed data is in place")
		return nil
	})
}

func (sc seedContract) row(ids map[string]int64, adminID int64) (*contractDatamodel.Contract, error) {
	row := &contractDatamodel.Contract{
		Name:         sc.Name,
		ClientID:     ids[sc.Client],
		Status:       sc.Status,
		ContractDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		CreatedBy:    &adminID,
	}
	if sc.Assigned != "" {
		assigned := ids[sc.Assigned]
		row.AssignedEmployeeID = &assigned
	}

	var err error
	if row.StartDate, err = seedDate(sc.Start); err != nil {
		return nil, err
	}
	if row.EndDate, err = seedDate(sc.End); err != nil {
		return nil, err
	}
	if sc.Value != "" {
		value, err := decimal.NewFromString(sc.Value)
		if err != nil {
			return nil, fmt.Errorf("contract %s value: %w", sc.Name, err)
		}
		row.ContractValue = decimal.NewNullDecimal(value)
	}
	return row, nil
}

func seedDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// clearSeedData empties every table, children first.
func clearSeedData(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&permissionDatamodel.EmployeePermission{},
			&commentDatamodel.Comment{},
			&contractDatamodel.Contract{},
			&userDatamodel.User{},
		} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func init() {
	seedCmd.Flags().BoolVar(&clearData, "clear", false, "Clear existing data before seeding")
	seedCmd.Flags().StringVar(&seedPassword, "password", "password123", "Password for every seeded user")
}
