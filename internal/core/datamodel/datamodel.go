package datamodel

import (
	commentDatamodel "github.com/frahmantamala/contract-portal/internal/core/datamodel/comment"
	contractDatamodel "github.com/frahmantamala/contract-portal/internal/core/datamodel/contract"
	permissionDatamodel "github.com/frahmantamala/contract-portal/internal/core/datamodel/permission"
	userDatamodel "github.com/frahmantamala/contract-portal/internal/core/datamodel/user"
	"gorm.io/gorm"
)

// Models lists every persisted row type in dependency order.
func Models() []interface{} {
	return []interface{}{
		&userDatamodel.User{},
		&contractDatamodel.Contract{},
		&commentDatamodel.Comment{},
		&permissionDatamodel.EmployeePermission{},
	}
}

// AutoMigrate creates the schema from the gorm models. Production schemas come from
// db/migrations; this is for embedded databases (tests, local sqlite).
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
