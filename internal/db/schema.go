package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const createExtensions = `CREATE EXTENSION IF NOT EXISTS "pgcrypto"`

const createUsersTable = `
CREATE TABLE IF NOT EXISTS public.users (
	id              UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	email           TEXT NOT NULL UNIQUE,
	password_hash   TEXT NOT NULL,
	display_name    TEXT,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	last_login_at   TIMESTAMPTZ,
	is_active       BOOLEAN NOT NULL DEFAULT true,
	is_system_admin BOOLEAN NOT NULL DEFAULT false
)`

const createShopsTable = `
CREATE TABLE IF NOT EXISTS public.shops (
	id                UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	name              TEXT NOT NULL UNIQUE,
	owner_id          UUID NOT NULL REFERENCES public.users(id),
	buffer_minutes    INTEGER,
	slot_step_minutes INTEGER,
	is_active         BOOLEAN NOT NULL DEFAULT true,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const createBarbersTable = `
CREATE TABLE IF NOT EXISTS public.barbers (
	id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	shop_id      UUID NOT NULL REFERENCES public.shops(id) ON DELETE CASCADE,
	user_id      UUID REFERENCES public.users(id) ON DELETE SET NULL,
	display_name TEXT NOT NULL,
	bio          TEXT NOT NULL DEFAULT '',
	is_active    BOOLEAN NOT NULL DEFAULT true,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (shop_id, user_id)
)`

const createOfferingsTable = `
CREATE TABLE IF NOT EXISTS public.offerings (
	id               UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	shop_id          UUID NOT NULL REFERENCES public.shops(id) ON DELETE CASCADE,
	name             TEXT NOT NULL,
	description      TEXT NOT NULL DEFAULT '',
	duration_minutes INTEGER NOT NULL CHECK (duration_minutes > 0),
	price_cents      BIGINT NOT NULL DEFAULT 0 CHECK (price_cents >= 0),
	is_active        BOOLEAN NOT NULL DEFAULT true,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (shop_id, name)
)`

const createWeeklySchedulesTable = `
CREATE TABLE IF NOT EXISTS public.weekly_schedules (
	barber_id   UUID NOT NULL REFERENCES public.barbers(id) ON DELETE CASCADE,
	day_of_week SMALLINT NOT NULL CHECK (day_of_week BETWEEN 0 AND 6),
	start_time  TEXT NOT NULL,
	end_time    TEXT NOT NULL,
	available   BOOLEAN NOT NULL DEFAULT true,
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (barber_id, day_of_week)
)`

const createDaysOffTable = `
CREATE TABLE IF NOT EXISTS public.days_off (
	id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	barber_id  UUID NOT NULL REFERENCES public.barbers(id) ON DELETE CASCADE,
	day        DATE NOT NULL,
	reason     TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (barber_id, day)
)`

const createBookingsTable = `
CREATE TABLE IF NOT EXISTS public.bookings (
	id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	barber_id    UUID NOT NULL REFERENCES public.barbers(id) ON DELETE CASCADE,
	user_id      UUID NOT NULL REFERENCES public.users(id),
	offering_id  UUID NOT NULL REFERENCES public.offerings(id),
	booking_date DATE NOT NULL,
	start_time   TEXT NOT NULL,
	status       TEXT NOT NULL DEFAULT 'pending'
		CHECK (status IN ('pending', 'confirmed', 'cancelled', 'completed', 'no_show')),
	notes        TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Only pending and confirmed bookings hold a slot. Overlap between different
// start times is checked under a per barber and day advisory lock at insert
// time; this index backs that up for identical start strings.
const createBookingsActiveSlotIndex = `
CREATE UNIQUE INDEX IF NOT EXISTS bookings_active_slot_uniq
	ON public.bookings (barber_id, booking_date, start_time)
	WHERE status IN ('pending', 'confirmed')`

const createBookingsBarberDateIndex = `
CREATE INDEX IF NOT EXISTS bookings_barber_date_idx
	ON public.bookings (barber_id, booking_date)`

const createBookingsUserIndex = `
CREATE INDEX IF NOT EXISTS bookings_user_idx
	ON public.bookings (user_id, booking_date DESC)`

// EnsureSchema creates the tables and indexes the repositories rely on.
// Every statement is idempotent so it is safe to run on each start.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		createExtensions,
		createUsersTable,
		createShopsTable,
		createBarbersTable,
		createOfferingsTable,
		createWeeklySchedulesTable,
		createDaysOffTable,
		createBookingsTable,
		createBookingsActiveSlotIndex,
		createBookingsBarberDateIndex,
		createBookingsUserIndex,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
