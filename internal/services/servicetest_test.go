package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/caresight/caresight-backend/internal/types"
)

// sqlite stand-in for the postgres schema; the production column defaults use
// postgres functions, so the tables are created by hand here.
const serviceTestSchema = `
CREATE TABLE ai_insight (
	id text PRIMARY KEY,
	patient_id text NOT NULL,
	visit_id text,
	created_by text,
	insight_type text NOT NULL,
	title text NOT NULL,
	description text,
	risk_level text NOT NULL DEFAULT 'low',
	priority_score real NOT NULL DEFAULT 0,
	confidence_score real NOT NULL DEFAULT 0,
	model_used text,
	model_version text,
	data_sources text,
	evidence text,
	is_actionable integer NOT NULL DEFAULT 1,
	recommended_actions text,
	urgency_level text NOT NULL DEFAULT 'routine',
	status text NOT NULL DEFAULT 'new',
	reviewed_by text,
	reviewed_at datetime,
	review_notes text,
	created_at datetime NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at datetime NOT NULL DEFAULT CURRENT_TIMESTAMP,
	expires_at datetime
);
CREATE TABLE patient_trend (
	id text PRIMARY KEY,
	patient_id text NOT NULL,
	metric_name text NOT NULL,
	metric_category text NOT NULL,
	trend_direction text NOT NULL,
	trend_strength real NOT NULL,
	statistical_significance real,
	data_points text,
	analysis_period_days integer NOT NULL DEFAULT 30,
	ai_interpretation text,
	clinical_significance text,
	created_at datetime NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at datetime NOT NULL DEFAULT CURRENT_TIMESTAMP,
	last_analyzed datetime,
	UNIQUE(patient_id, metric_name, metric_category)
);
CREATE TABLE risk_prediction (
	id text PRIMARY KEY,
	patient_id text NOT NULL,
	risk_type text NOT NULL,
	risk_score real NOT NULL,
	risk_category text NOT NULL,
	confidence_interval text,
	model_name text,
	model_accuracy real,
	feature_importance text,
	risk_factors text,
	protective_factors text,
	prevention_strategies text,
	monitoring_recommendations text,
	is_validated integer NOT NULL DEFAULT 0,
	validated_by text,
	validation_notes text,
	created_at datetime NOT NULL DEFAULT CURRENT_TIMESTAMP,
	expires_at datetime
);
CREATE TABLE clinical_decision_support (
	id text PRIMARY KEY,
	patient_id text NOT NULL,
	visit_id text,
	support_type text NOT NULL,
	title text NOT NULL,
	recommendation text,
	rationale text,
	evidence_level text NOT NULL DEFAULT 'expert_opinion',
	current_status text,
	proposed_changes text,
	expected_outcomes text,
	potential_risks text,
	urgency text NOT NULL DEFAULT 'routine',
	requires_md_approval integer NOT NULL DEFAULT 1,
	implementation_notes text,
	status text NOT NULL DEFAULT 'pending',
	reviewed_by text,
	reviewed_at datetime,
	created_at datetime NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at datetime NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE ai_processing_log (
	id text PRIMARY KEY,
	patient_id text,
	user_id text,
	process_type text NOT NULL,
	model_used text,
	input_data_size integer,
	processing_time_seconds real,
	success integer NOT NULL DEFAULT 1,
	error_message text,
	output_summary text,
	tokens_used integer,
	cost_estimate real,
	started_at datetime NOT NULL,
	completed_at datetime NOT NULL
);
`

func serviceTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("sqlite open failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite pool access failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.Exec(serviceTestSchema).Error; err != nil {
		t.Fatalf("schema create failed: %v", err)
	}
	return db
}

// fakePatientDataProvider serves a fixed set of patients and visits.
type fakePatientDataProvider struct {
	patients map[uuid.UUID]*types.Patient
	visits   []*types.Visit
}

func newFakeProvider(patients ...*types.Patient) *fakePatientDataProvider {
	p := &fakePatientDataProvider{patients: map[uuid.UUID]*types.Patient{}}
	for _, patient := range patients {
		p.patients[patient.ID] = patient
	}
	return p
}

func (p *fakePatientDataProvider) PatientByID(ctx context.Context, id uuid.UUID) (*types.Patient, error) {
	return p.patients[id], nil
}

func (p *fakePatientDataProvider) VisitsSince(ctx context.Context, patientID uuid.UUID, since time.Time, limit int) ([]*types.Visit, error) {
	out := make([]*types.Visit, 0, len(p.visits))
	for _, v := range p.visits {
		if v.PatientID == patientID && !v.VisitDate.Before(since) {
			out = append(out, v)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// fakeCompletionClient returns a scripted result and records the last call.
type fakeCompletionClient struct {
	result       *CompletionResult
	lastMessages []ChatMessage
	calls        int
}

func (c *fakeCompletionClient) Complete(ctx context.Context, messages []ChatMessage, opts *CompletionOptions) *CompletionResult {
	c.calls++
	c.lastMessages = messages
	return c.result
}

func (c *fakeCompletionClient) Configured() bool     { return true }
func (c *fakeCompletionClient) DefaultModel() string { return "gpt-4o-mini" }

func successResult(content string) *CompletionResult {
	return &CompletionResult{
		Success:           true,
		Content:           content,
		Confidence:        1.0,
		Model:             "gpt-4o-mini",
		TokensUsed:        10,
		ProcessingSeconds: 0.1,
	}
}

func failureResult(msg string) *CompletionResult {
	return &CompletionResult{
		Success:      false,
		Model:        "gpt-4o-mini",
		ErrorMessage: msg,
	}
}

func testPatient() *types.Patient {
	dob := time.Date(1950, 3, 12, 0, 0, 0, 0, time.UTC)
	return &types.Patient{
		ID:          uuid.New(),
		MRN:         "MRN-1001",
		FirstName:   "Alex",
		LastName:    "Rivera",
		DateOfBirth: &dob,
		Gender:      "female",
	}
}
