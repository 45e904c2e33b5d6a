package bootstrap

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"arka.dev/learnhub/internal/entity"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.Course{},
		&entity.Lesson{},
		&entity.Topic{},
	)
}

// SeedDevUsers creates one teacher and one student account for local
// development. Existing accounts are left alone.
func SeedDevUsers(db *gorm.DB) error {
	seeds := []struct {
		name     string
		email    string
		password string
		role     entity.Role
	}{
		{"Dev Teacher", "teacher@learnhub.local", "teacher123", entity.RoleTeacher},
		{"Dev Student", "student@learnhub.local", "student123", entity.RoleStudent},
	}

	for _, seed := range seeds {
		var count int64
		if err := db.Model(&entity.User{}).
			Where("email = ?", seed.email).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(seed.password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		user := entity.User{
			Name:         seed.name,
			Email:        seed.email,
			PasswordHash: string(hash),
			Role:         seed.role,
		}
		if err := db.Create(&user).Error; err != nil {
			return err
		}
	}

	return nil
}
