package database

import (
	"fmt"
	"log/slog"
)

func (db *DB) RunMigrations() error {
	slog.Info("Running database migrations...")

	migrations := []string{
		createHotelsTable,
		createRoomTypesTable,
		createRoomsTable,
		createGuestsTable,
		createBookingsTable,
		createPaymentsTable,
		createLikesTable,
		createSavedRoomsTable,
		createAdminHotelsTable,
		createNotificationsTable,
		createUserNotificationsTable,
		createBookingsCheckoutIndex,
		createRatingsTable,
		createRatingsHotelIndex,
	}

	for i, migration := range migrations {
		slog.Info("Running migration", "step", i+1)
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	slog.Info("All migrations completed successfully")
	return nil
}

const createHotelsTable = `
CREATE TABLE IF NOT EXISTS hotels (
    id BIGSERIAL PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    address VARCHAR(500) NOT NULL DEFAULT '',
    stars INTEGER NOT NULL DEFAULT 0,
    tags TEXT NOT NULL DEFAULT '',
    phone VARCHAR(50) NOT NULL DEFAULT '',
    email VARCHAR(255) NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (stars BETWEEN 0 AND 5)
);`

const createRoomTypesTable = `
CREATE TABLE IF NOT EXISTS room_types (
    id BIGSERIAL PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    price_per_night DECIMAL(10,2) NOT NULL,
    capacity INTEGER NOT NULL DEFAULT 1,
    description TEXT NOT NULL DEFAULT '',
    image_url VARCHAR(1000) NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (price_per_night >= 0),
    CHECK (capacity > 0)
);`

const createRoomsTable = `
CREATE TABLE IF NOT EXISTS rooms (
    id BIGSERIAL PRIMARY KEY,
    hotel_id BIGINT NOT NULL REFERENCES hotels(id) ON DELETE CASCADE,
    room_type_id BIGINT NOT NULL REFERENCES room_types(id) ON DELETE RESTRICT,
    room_number VARCHAR(20) NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'Available',
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    UNIQUE(hotel_id, room_number),
    CHECK (status IN ('Available', 'Occupied'))
);`

const createGuestsTable = `
CREATE TABLE IF NOT EXISTS guests (
    id BIGSERIAL PRIMARY KEY,
    account_id VARCHAR(255) UNIQUE,
    name VARCHAR(255) NOT NULL,
    email VARCHAR(255) NOT NULL DEFAULT 'Unknown',
    phone VARCHAR(50) NOT NULL DEFAULT 'Unknown',
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);`

const createBookingsTable = `
CREATE TABLE IF NOT EXISTS bookings (
    id BIGSERIAL PRIMARY KEY,
    guest_id BIGINT NOT NULL REFERENCES guests(id),
    room_id BIGINT NOT NULL REFERENCES rooms(id),
    checkin_date DATE NOT NULL,
    checkout_date DATE NOT NULL,
    total_price DECIMAL(10,2) NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (checkout_date > checkin_date),
    CHECK (total_price >= 0)
);`

const createPaymentsTable = `
CREATE TABLE IF NOT EXISTS payments (
    id BIGSERIAL PRIMARY KEY,
    booking_id BIGINT NOT NULL UNIQUE REFERENCES bookings(id) ON DELETE CASCADE,
    amount DECIMAL(10,2) NOT NULL,
    payment_date DATE NOT NULL,
    method VARCHAR(10) NOT NULL DEFAULT 'Card',
    status_done VARCHAR(3) NOT NULL DEFAULT 'NO',

    CHECK (method IN ('Cash', 'Card')),
    CHECK (status_done IN ('YES', 'NO'))
);`

const createLikesTable = `
CREATE TABLE IF NOT EXISTS likes (
    id BIGSERIAL PRIMARY KEY,
    user_id VARCHAR(255) NOT NULL,
    room_id BIGINT NOT NULL REFERENCES rooms(id) ON DELETE CASCADE,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),

    UNIQUE(user_id, room_id)
);`

const createSavedRoomsTable = `
CREATE TABLE IF NOT EXISTS saved_rooms (
    id BIGSERIAL PRIMARY KEY,
    user_id VARCHAR(255) NOT NULL,
    room_id BIGINT NOT NULL REFERENCES rooms(id) ON DELETE CASCADE,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),

    UNIQUE(user_id, room_id)
);`

const createAdminHotelsTable = `
CREATE TABLE IF NOT EXISTS admin_hotels (
    id BIGSERIAL PRIMARY KEY,
    account_id VARCHAR(255) NOT NULL UNIQUE,
    user_name VARCHAR(255) NOT NULL DEFAULT '',
    hotel_id BIGINT NOT NULL REFERENCES hotels(id) ON DELETE CASCADE
);`

const createNotificationsTable = `
CREATE TABLE IF NOT EXISTS notifications (
    id BIGSERIAL PRIMARY KEY,
    message TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);`

const createUserNotificationsTable = `
CREATE TABLE IF NOT EXISTS user_notifications (
    id BIGSERIAL PRIMARY KEY,
    notification_id BIGINT NOT NULL REFERENCES notifications(id) ON DELETE CASCADE,
    user_id VARCHAR(255) NOT NULL,
    is_read BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);`

const createBookingsCheckoutIndex = `
CREATE INDEX IF NOT EXISTS bookings_room_checkout_idx
ON bookings (room_id, checkout_date);`

const createRatingsTable = `
CREATE TABLE IF NOT EXISTS ratings (
    id BIGSERIAL PRIMARY KEY,
    user_id VARCHAR(255) NOT NULL,
    hotel_id BIGINT NOT NULL REFERENCES hotels(id) ON DELETE CASCADE,
    value NUMERIC(2,1) NOT NULL,
    rated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (value BETWEEN 1 AND 5),
    CHECK (value * 2 = TRUNC(value * 2))
);`

const createRatingsHotelIndex = `
CREATE INDEX IF NOT EXISTS ratings_hotel_idx
ON ratings (hotel_id, rated_at DESC);`
