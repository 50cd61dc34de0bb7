package migration

const createUsers = `
	CREATE TABLE IF NOT EXISTS users (
		id                   TEXT PRIMARY KEY,
		fullname             TEXT NOT NULL,
		email                TEXT NOT NULL UNIQUE,
		phone_number         TEXT NOT NULL DEFAULT '',
		role                 TEXT NOT NULL CHECK (role IN ('jobseeker', 'recruiter', 'admin')),
		bio                  TEXT NOT NULL DEFAULT '',
		skills               TEXT[] NOT NULL DEFAULT '{}',
		resume_url           TEXT NOT NULL DEFAULT '',
		resume_original_name TEXT NOT NULL DEFAULT '',
		company_id           TEXT,
		profile_photo        TEXT NOT NULL DEFAULT '',
		created_at           TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at           TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

const createCompanies = `
	CREATE TABLE IF NOT EXISTS companies (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		website     TEXT NOT NULL DEFAULT '',
		location    TEXT NOT NULL DEFAULT '',
		logo        TEXT NOT NULL DEFAULT '',
		owner_id    TEXT NOT NULL REFERENCES users(id),
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

// application_ids is the job's ordered, append-only list of applications.
const createJobs = `
	CREATE TABLE IF NOT EXISTS jobs (
		id               TEXT PRIMARY KEY,
		title            TEXT NOT NULL,
		description      TEXT NOT NULL,
		requirements     TEXT[] NOT NULL DEFAULT '{}',
		salary           NUMERIC(14, 2) NOT NULL DEFAULT 0,
		location         TEXT NOT NULL DEFAULT '',
		job_type         TEXT NOT NULL DEFAULT '',
		experience_level INT NOT NULL DEFAULT 0,
		position_count   INT NOT NULL DEFAULT 1 CHECK (position_count >= 1),
		company_id       TEXT NOT NULL REFERENCES companies(id),
		created_by       TEXT NOT NULL REFERENCES users(id),
		application_ids  TEXT[] NOT NULL DEFAULT '{}',
		created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

const createApplications = `
	CREATE TABLE IF NOT EXISTS applications (
		id                   TEXT PRIMARY KEY,
		job_id               TEXT NOT NULL REFERENCES jobs(id) ON DELETE RESTRICT,
		applicant_id         TEXT NOT NULL REFERENCES users(id),
		fullname             TEXT NOT NULL,
		email                TEXT NOT NULL,
		phone_number         TEXT NOT NULL,
		cover_letter         TEXT NOT NULL,
		resume_url           TEXT NOT NULL,
		resume_original_name TEXT NOT NULL DEFAULT '',
		status               TEXT NOT NULL DEFAULT 'pending',
		status_changed_at    TIMESTAMPTZ,
		created_at           TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at           TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT applications_cover_letter_length CHECK (char_length(cover_letter) <= 2000),
		CONSTRAINT applications_status_check CHECK (status IN ('pending', 'accepted', 'rejected'))
	)`

const createApplicationIndexes = `
	CREATE UNIQUE INDEX IF NOT EXISTS applications_job_applicant_key
		ON applications (job_id, applicant_id);
	CREATE INDEX IF NOT EXISTS applications_applicant_created_idx
		ON applications (applicant_id, created_at DESC);
	CREATE INDEX IF NOT EXISTS jobs_created_by_idx
		ON jobs (created_by, created_at DESC);`
