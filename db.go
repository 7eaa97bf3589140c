package main

import (
	"errors"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/aashavskiy/tennisbookingbot/models"
)

var db *gorm.DB

var errNoDSN = errors.New("DB_DSN is not set")

func initDB(cfg Config) error {
	if cfg.DBDSN == "" {
		return errNoDSN
	}
	var err error
	db, err = gorm.Open(postgres.Open(cfg.DBDSN), &gorm.Config{})
	if err != nil {
		return err
	}
	// Migrate models individually so a failure on one doesn't block others.
	if err := db.AutoMigrate(&models.User{}); err != nil {
		log.Printf("migration warning (users): %v", err)
	}
	if err := db.AutoMigrate(&models.Booking{}); err != nil {
		log.Printf("migration warning (bookings): %v", err)
	}
	seedAdmin(cfg.AdminID)
	return nil
}

// seedAdmin makes sure the configured administrator exists and is approved.
func seedAdmin(adminID int64) {
	if adminID == 0 {
		log.Printf("ADMIN_ID not set, skipping admin seeding")
		return
	}
	var count int64
	db.Model(&models.User{}).Where("telegram_id = ?", adminID).Count(&count)
	if count == 0 {
		admin := models.User{TelegramID: adminID, Username: "Admin", IsAdmin: true, IsApproved: true}
		if err := db.Create(&admin).Error; err != nil {
			log.Printf("failed to seed admin %d: %v", adminID, err)
			return
		}
		log.Printf("seeded admin user with telegram id %d", adminID)
		return
	}
	// Existing row may predate the admin flag.
	db.Model(&models.User{}).Where("telegram_id = ?", adminID).
		Updates(map[string]interface{}{"is_admin": true, "is_approved": true})
}

func getUserByTelegramID(id int64) (*models.User, bool) {
	var u models.User
	if err := db.Where("telegram_id = ?", id).First(&u).Error; err != nil {
		return nil, false
	}
	return &u, true
}

func isUserAdmin(id int64) bool {
	u, ok := getUserByTelegramID(id)
	return ok && u.IsAdmin
}

func isUserApproved(id int64) bool {
	u, ok := getUserByTelegramID(id)
	return ok && u.IsApproved
}

// createUser registers a Telegram user, updating the username on conflict.
func createUser(id int64, username string) error {
	if username == "" {
		username = "Unknown"
	}
	if existing, ok := getUserByTelegramID(id); ok {
		return db.Model(existing).Update("username", username).Error
	}
	u := models.User{TelegramID: id, Username: username}
	return db.Create(&u).Error
}

func approveUser(id int64) error {
	res := db.Model(&models.User{}).Where("telegram_id = ?", id).Update("is_approved", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func listUsers() ([]models.User, error) {
	var users []models.User
	err := db.Order("id").Find(&users).Error
	return users, err
}

func saveBooking(userID uint, date, timeRange, court string) error {
	b := models.Booking{UserID: userID, Date: date, Time: timeRange, Court: court}
	return db.Create(&b).Error
}

func listUserBookings(userID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := db.Where("user_id = ?", userID).Order("date, time").Find(&bookings).Error
	return bookings, err
}

func listAllBookings() ([]models.Booking, error) {
	var bookings []models.Booking
	err := db.Order("id desc").Limit(200).Find(&bookings).Error
	return bookings, err
}

// pingDB verifies the connection for health checks and /dbstatus.
func pingDB() error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
