package testutil

// Schema mirrors the externally provisioned clinic database closely enough for
// repository integration tests.
const Schema = `
CREATE TABLE IF NOT EXISTS users (
	id            BIGSERIAL PRIMARY KEY,
	auth_subject  TEXT UNIQUE,
	username      TEXT NOT NULL,
	email         TEXT,
	first_name    TEXT NOT NULL DEFAULT '',
	last_name     TEXT NOT NULL DEFAULT '',
	phone_number  TEXT,
	custom_id     TEXT NOT NULL,
	role          TEXT NOT NULL CHECK (role IN ('admin', 'provider', 'mother')),
	designation   TEXT,
	department    TEXT,
	address       TEXT,
	sex           TEXT,
	is_active     BOOLEAN NOT NULL DEFAULT true,
	created_by    BIGINT REFERENCES users(id),
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at    TIMESTAMPTZ,
	CONSTRAINT users_username_key UNIQUE (username),
	CONSTRAINT users_custom_id_key UNIQUE (custom_id)
);

CREATE TABLE IF NOT EXISTS mother_profiles (
	user_id              BIGINT PRIMARY KEY REFERENCES users(id),
	date_of_birth        DATE,
	religion             TEXT,
	ethnic_group         TEXT,
	marital_status       TEXT,
	education_level      TEXT,
	occupation           TEXT,
	nok_name             TEXT,
	nok_relationship     TEXT,
	nok_address          TEXT,
	nok_phone            TEXT,
	nok_occupation       TEXT,
	nok_education_level  TEXT,
	created_at           TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at           TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS health_records (
	id                         BIGSERIAL PRIMARY KEY,
	mother_id                  BIGINT NOT NULL REFERENCES users(id),
	blood_group                TEXT,
	genotype                   TEXT,
	height_cm                  NUMERIC(5,1),
	allergies                  TEXT,
	chronic_conditions         TEXT,
	gravidity                  INTEGER,
	parity                     INTEGER,
	lmp                        DATE,
	edd                        DATE,
	medications                TEXT,
	family_planning            TEXT,
	previous_illness           TEXT,
	previous_surgery           TEXT,
	family_history             TEXT,
	infertility_status         TEXT,
	father_blood_group         TEXT,
	mother_rhesus              TEXT,
	father_rhesus              TEXT,
	hepatitis_b_status         TEXT,
	vdrl_status                TEXT,
	rvs_status                 TEXT,
	hb_booking                 NUMERIC(4,1),
	hb_28_weeks                NUMERIC(4,1),
	hb_36_weeks                NUMERIC(4,1),
	ultrasound1_date           DATE,
	ultrasound1_result         TEXT,
	ultrasound2_date           DATE,
	ultrasound2_result         TEXT,
	pap_smear_date             DATE,
	pap_smear_comments         TEXT,
	is_active                  BOOLEAN NOT NULL DEFAULT true,
	created_at                 TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at                 TIMESTAMPTZ
);
CREATE UNIQUE INDEX IF NOT EXISTS health_records_active_mother ON health_records (mother_id) WHERE is_active;

CREATE TABLE IF NOT EXISTS previous_pregnancies (
	id                   BIGSERIAL PRIMARY KEY,
	mother_id            BIGINT NOT NULL REFERENCES users(id),
	year                 INTEGER,
	place_of_birth       TEXT,
	gestation_weeks      INTEGER,
	mode_of_delivery     TEXT,
	labour_duration      TEXT,
	outcome              TEXT,
	birth_weight_kg      NUMERIC(4,2),
	complications        TEXT,
	is_active            BOOLEAN NOT NULL DEFAULT true,
	created_at           TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at           TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS examinations (
	id                      BIGSERIAL PRIMARY KEY,
	mother_id               BIGINT NOT NULL REFERENCES users(id),
	provider_id             BIGINT REFERENCES users(id),
	visit_date              DATE NOT NULL,
	gestational_age_weeks   INTEGER,
	bp_systolic             INTEGER,
	bp_diastolic            INTEGER,
	weight_kg               NUMERIC(5,1),
	temperature_c           NUMERIC(4,1),
	pulse_rate              INTEGER,
	respiratory_rate        INTEGER,
	fundal_height_cm        NUMERIC(4,1),
	fetal_heart_rate        INTEGER,
	urine_protein           TEXT,
	urine_glucose           TEXT,
	oedema                  TEXT,
	presentation            TEXT,
	lie                     TEXT,
	problem_list            TEXT,
	delivery_plan           TEXT,
	admission_instructions  TEXT,
	notes                   TEXT,
	next_appointment        DATE,
	status                  TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'completed', 'missed', 'cancelled')),
	is_active               BOOLEAN NOT NULL DEFAULT true,
	created_at              TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at              TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS appointments (
	id                BIGSERIAL PRIMARY KEY,
	patient_id        BIGINT NOT NULL REFERENCES users(id),
	provider_id       BIGINT REFERENCES users(id),
	appointment_type  TEXT NOT NULL,
	appointment_date  TIMESTAMPTZ NOT NULL,
	notes             TEXT,
	status            TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'completed', 'missed', 'cancelled')),
	created_by        BIGINT REFERENCES users(id),
	created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS notifications (
	id           BIGSERIAL PRIMARY KEY,
	user_id      BIGINT NOT NULL REFERENCES users(id),
	title        TEXT NOT NULL,
	message      TEXT NOT NULL,
	object_type  TEXT,
	object_id    BIGINT,
	is_read      BOOLEAN NOT NULL DEFAULT false,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS reminder_markers (
	id       BIGSERIAL PRIMARY KEY,
	exam_id  BIGINT NOT NULL REFERENCES examinations(id),
	kind     TEXT NOT NULL CHECK (kind IN ('day_before', 'same_day')),
	sent_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	CONSTRAINT reminder_markers_exam_kind_key UNIQUE (exam_id, kind)
);

CREATE TABLE IF NOT EXISTS activity_logs (
	id           BIGSERIAL PRIMARY KEY,
	actor_id     BIGINT REFERENCES users(id),
	action       TEXT NOT NULL,
	target       TEXT,
	description  TEXT,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS system_settings (
	id                       SMALLINT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
	reminder_time_in_hours   INTEGER NOT NULL DEFAULT 24,
	allow_mother_reschedule  BOOLEAN NOT NULL DEFAULT false,
	timezone                 TEXT NOT NULL DEFAULT 'UTC',
	notify_email             BOOLEAN NOT NULL DEFAULT true,
	notify_sms               BOOLEAN NOT NULL DEFAULT true,
	updated_at               TIMESTAMPTZ
);
`

// tables lists every table in truncation order.
var tables = []string{
	"reminder_markers",
	"notifications",
	"activity_logs",
	"appointments",
	"examinations",
	"previous_pregnancies",
	"health_records",
	"mother_profiles",
	"system_settings",
	"users",
}
