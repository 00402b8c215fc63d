package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/algo-verite/engine/internal/engine"
	"github.com/algo-verite/engine/internal/integrity"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS patients (
	id            TEXT PRIMARY KEY,
	data          TEXT NOT NULL,
	created_at    TEXT NOT NULL,
	updated_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS analyses (
	id             TEXT PRIMARY KEY,
	patient_id     TEXT NOT NULL,
	analysis_json  TEXT NOT NULL,
	base_sequence  TEXT NOT NULL,
	root_signature TEXT NOT NULL,
	created_at     TEXT NOT NULL,
	FOREIGN KEY (patient_id) REFERENCES patients(id)
);

CREATE TABLE IF NOT EXISTS follow_ups (
	id            TEXT PRIMARY KEY,
	patient_id    TEXT NOT NULL,
	day_number    INTEGER NOT NULL,
	health_status TEXT NOT NULL,
	symptoms      TEXT NOT NULL,
	notes         TEXT,
	created_at    TEXT NOT NULL,
	FOREIGN KEY (patient_id) REFERENCES patients(id)
);

CREATE INDEX IF NOT EXISTS idx_analyses_patient ON analyses(patient_id, created_at);
CREATE INDEX IF NOT EXISTS idx_follow_ups_patient ON follow_ups(patient_id, day_number);
`

// #endregion schema

// #region types

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// FollowUp is one recorded follow-up observation for a patient.
type FollowUp struct {
	ID           string    `json:"id"`
	PatientID    string    `json:"patient_id"`
	DayNumber    int       `json:"day_number"`
	HealthStatus string    `json:"health_status"`
	Symptoms     []string  `json:"symptoms"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// PathologyCount is one entry of the most-common-pathologies ranking.
type PathologyCount struct {
	Pathology string `json:"pathology"`
	Count     int    `json:"count"`
}

// RecentAnalysis is a summary line for one of the latest analyses.
type RecentAnalysis struct {
	Date      time.Time `json:"date"`
	Pathology string    `json:"pathology"`
}

// Statistics aggregates the archive contents.
type Statistics struct {
	Patients          int              `json:"patients"`
	Analyses          int              `json:"analyses"`
	FollowUps         int              `json:"follow_ups"`
	CommonPathologies []PathologyCount `json:"common_pathologies"`
	RecentAnalyses    []RecentAnalysis `json:"recent_analyses"`
}

// Store persists patients, analyses and follow-ups in SQLite. The
// analyses table doubles as the integrity archive: it keeps the base
// sequence and signature root needed for replay verification.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// #endregion types

// #region constructor

// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// WithClock overrides the store clock, for deterministic tests.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// #endregion constructor

// #region patients

// SavePatient upserts the patient input keyed by its identifier.
func (s *Store) SavePatient(id string, in engine.PatientInput) error {
	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal patient: %w", err)
	}
	now := s.now().UTC().Format(time.RFC3339Nano)
	_, err = s.db.Exec(`
		INSERT INTO patients (id, data, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		id, string(data), now, now)
	if err != nil {
		return fmt.Errorf("save patient: %w", err)
	}
	return nil
}

// GetPatient loads one patient input by identifier.
func (s *Store) GetPatient(id string) (engine.PatientInput, error) {
	var data string
	err := s.db.QueryRow(`SELECT data FROM patients WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return engine.PatientInput{}, ErrNotFound
	}
	if err != nil {
		return engine.PatientInput{}, fmt.Errorf("get patient: %w", err)
	}
	var in engine.PatientInput
	if err := json.Unmarshal([]byte(data), &in); err != nil {
		return engine.PatientInput{}, fmt.Errorf("decode patient: %w", err)
	}
	return in, nil
}

// ListPatients returns every stored patient identifier, oldest first.
func (s *Store) ListPatients() ([]string, error) {
	rows, err := s.db.Query(`SELECT id FROM patients ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan patient id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// #endregion patients

// #region analyses

// SaveAnalysis stores one analysis result, keeping the replay columns
// (base sequence and signature root) alongside the full JSON document.
func (s *Store) SaveAnalysis(a *engine.Analysis) error {
	doc, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal analysis: %w", err)
	}
	seq, err := json.Marshal(a.BaseSequence)
	if err != nil {
		return fmt.Errorf("marshal base sequence: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO analyses (id, patient_id, analysis_json, base_sequence, root_signature, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), a.PatientID, string(doc), string(seq),
		a.Signature.Root, s.now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save analysis: %w", err)
	}
	return nil
}

// LatestAnalysis loads the most recent analysis for a patient.
func (s *Store) LatestAnalysis(patientID string) (*engine.Analysis, error) {
	var doc string
	err := s.db.QueryRow(`
		SELECT analysis_json FROM analyses
		WHERE patient_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1`, patientID).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("latest analysis: %w", err)
	}
	return decodeAnalysis(doc)
}

// GetPatientAnalyses loads every analysis for a patient, oldest first.
func (s *Store) GetPatientAnalyses(patientID string) ([]*engine.Analysis, error) {
	rows, err := s.db.Query(`
		SELECT analysis_json FROM analyses
		WHERE patient_id = ?
		ORDER BY created_at, id`, patientID)
	if err != nil {
		return nil, fmt.Errorf("patient analyses: %w", err)
	}
	defer rows.Close()

	var analyses []*engine.Analysis
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan analysis: %w", err)
		}
		a, err := decodeAnalysis(doc)
		if err != nil {
			return nil, err
		}
		analyses = append(analyses, a)
	}
	return analyses, rows.Err()
}

func decodeAnalysis(doc string) (*engine.Analysis, error) {
	var a engine.Analysis
	if err := json.Unmarshal([]byte(doc), &a); err != nil {
		return nil, fmt.Errorf("decode analysis: %w", err)
	}
	return &a, nil
}

// Lookup implements integrity.Archive over the latest analysis of a
// patient, using the stored replay columns rather than the JSON document.
func (s *Store) Lookup(patientID string) (integrity.Record, bool, error) {
	var seq, root string
	err := s.db.QueryRow(`
		SELECT base_sequence, root_signature FROM analyses
		WHERE patient_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1`, patientID).Scan(&seq, &root)
	if errors.Is(err, sql.ErrNoRows) {
		return integrity.Record{}, false, nil
	}
	if err != nil {
		return integrity.Record{}, false, fmt.Errorf("lookup analysis: %w", err)
	}

	var base []int
	if err := json.Unmarshal([]byte(seq), &base); err != nil {
		return integrity.Record{}, false, fmt.Errorf("decode base sequence: %w", err)
	}
	return integrity.Record{Name: patientID, Sequence: base, RootSignature: root}, true, nil
}

// #endregion analyses

// #region follow-ups

// AddFollowUp records a follow-up observation for a patient.
func (s *Store) AddFollowUp(f FollowUp) (string, error) {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	symptoms, err := json.Marshal(f.Symptoms)
	if err != nil {
		return "", fmt.Errorf("marshal symptoms: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO follow_ups (id, patient_id, day_number, health_status, symptoms, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		f.ID, f.PatientID, f.DayNumber, f.HealthStatus, string(symptoms),
		f.Notes, s.now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return "", fmt.Errorf("add follow-up: %w", err)
	}
	return f.ID, nil
}

// FollowUps loads a patient's follow-ups ordered by day.
func (s *Store) FollowUps(patientID string) ([]FollowUp, error) {
	rows, err := s.db.Query(`
		SELECT id, patient_id, day_number, health_status, symptoms, notes, created_at
		FROM follow_ups
		WHERE patient_id = ?
		ORDER BY day_number, created_at`, patientID)
	if err != nil {
		return nil, fmt.Errorf("follow-ups: %w", err)
	}
	defer rows.Close()

	var followUps []FollowUp
	for rows.Next() {
		var f FollowUp
		var symptoms, notes sql.NullString
		var createdAt string
		if err := rows.Scan(&f.ID, &f.PatientID, &f.DayNumber, &f.HealthStatus, &symptoms, &notes, &createdAt); err != nil {
			return nil, fmt.Errorf("scan follow-up: %w", err)
		}
		if symptoms.Valid {
			if err := json.Unmarshal([]byte(symptoms.String), &f.Symptoms); err != nil {
				return nil, fmt.Errorf("decode symptoms: %w", err)
			}
		}
		f.Notes = notes.String
		if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			f.CreatedAt = ts
		}
		followUps = append(followUps, f)
	}
	return followUps, rows.Err()
}

// #endregion follow-ups

// #region statistics

// Stats summarizes the archive contents: counts, the five most common
// pathologies and the five latest analyses.
func (s *Store) Stats() (Statistics, error) {
	var stats Statistics
	queries := []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(*) FROM patients`, &stats.Patients},
		{`SELECT COUNT(*) FROM analyses`, &stats.Analyses},
		{`SELECT COUNT(*) FROM follow_ups`, &stats.FollowUps},
	}
	for _, q := range queries {
		if err := s.db.QueryRow(q.query).Scan(q.dest); err != nil {
			return Statistics{}, fmt.Errorf("stats: %w", err)
		}
	}

	rows, err := s.db.Query(`SELECT json_extract(data, '$.pathology') AS pathology, COUNT(*)
		FROM patients GROUP BY pathology ORDER BY COUNT(*) DESC, pathology LIMIT 5`)
	if err != nil {
		return Statistics{}, fmt.Errorf("stats pathologies: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var pc PathologyCount
		if err := rows.Scan(&pc.Pathology, &pc.Count); err != nil {
			return Statistics{}, fmt.Errorf("stats pathologies: %w", err)
		}
		stats.CommonPathologies = append(stats.CommonPathologies, pc)
	}
	if err := rows.Err(); err != nil {
		return Statistics{}, fmt.Errorf("stats pathologies: %w", err)
	}

	recent, err := s.db.Query(`SELECT a.created_at, json_extract(p.data, '$.pathology')
		FROM analyses a JOIN patients p ON a.patient_id = p.id
		ORDER BY a.created_at DESC LIMIT 5`)
	if err != nil {
		return Statistics{}, fmt.Errorf("stats recent: %w", err)
	}
	defer recent.Close()
	for recent.Next() {
		var (
			ra RecentAnalysis
			ts string
		)
		if err := recent.Scan(&ts, &ra.Pathology); err != nil {
			return Statistics{}, fmt.Errorf("stats recent: %w", err)
		}
		if ra.Date, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return Statistics{}, fmt.Errorf("stats recent: %w", err)
		}
		stats.RecentAnalyses = append(stats.RecentAnalyses, ra)
	}
	return stats, recent.Err()
}

// #endregion statistics
