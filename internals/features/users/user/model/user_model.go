package model

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Validator instance
var validate = validator.New()

// UserModel merepresentasikan tabel users di database
type UserModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserName  string    `gorm:"size:50;unique;not null" json:"user_name" validate:"required,min=3,max=50"`
	Email     string    `gorm:"size:255;unique;not null" json:"email" validate:"required,email"`
	Password  string    `gorm:"not null" json:"-" validate:"required,min=8"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName memastikan nama tabel sesuai dengan skema database
func (UserModel) TableName() string {
	return "users"
}

func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Validate memeriksa apakah input sesuai aturan yang telah didefinisikan
func (u *UserModel) Validate() error {
	if err := validate.Struct(u); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError mengubah error validasi menjadi pesan yang lebih jelas
func formatValidationError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	messages := make([]string, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		switch fieldErr.Tag() {
		case "required":
			messages = append(messages, fieldErr.Field()+" wajib diisi.")
		case "email":
			messages = append(messages, "Format email tidak valid.")
		case "min":
			messages = append(messages, fieldErr.Field()+" harus minimal "+fieldErr.Param()+" karakter.")
		case "max":
			messages = append(messages, fieldErr.Field()+" harus kurang dari "+fieldErr.Param()+" karakter.")
		default:
			messages = append(messages, fieldErr.Field()+": format tidak valid.")
		}
	}
	return errors.New(strings.Join(messages, " "))
}
