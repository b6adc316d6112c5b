package repository

import "gorm.io/gorm"

// Repositories — набор репозиториев поверх одного подключения.
type Repositories struct {
	Users         UserRepository
	Specialties   SpecialtyRepository
	WorkingHours  WorkingHourRepository
	Reservations  ReservationRepository
	Verifications VerificationRepository
	Events        EventRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:         NewGormUserRepository(db),
		Specialties:   NewGormSpecialtyRepository(db),
		WorkingHours:  NewGormWorkingHourRepository(db),
		Reservations:  NewGormReservationRepository(db),
		Verifications: NewGormVerificationRepository(db),
		Events:        NewGormEventRepository(db),
	}
}
