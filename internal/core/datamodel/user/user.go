package user

import "time"

type User struct {
	ID            int64     `gorm:"primaryKey"`
	Email         string    `gorm:"column:email;uniqueIndex;not null"`
	Name          string    `gorm:"column:name;not null"`
	PasswordHash  string    `gorm:"column:password_hash;not null"`
	Role          string    `gorm:"column:role;not null;index"`
	Phone         *string   `gorm:"column:phone"`
	CompanyName   *string   `gorm:"column:company_name"`
	Address       *string   `gorm:"column:address"`
	PANNumber     *string   `gorm:"column:pan_number"`
	AadhaarNumber *string   `gorm:"column:aadhaar_number"`
	IsActive      bool      `gorm:"column:is_active;default:true"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
