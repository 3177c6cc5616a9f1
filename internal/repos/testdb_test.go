package repos

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/caresight/caresight-backend/internal/platform/logger"
)

// The production schema uses postgres defaults (uuid_generate_v4, now()) that
// sqlite cannot parse, so tests create equivalent tables by hand. Row identity
// still comes from the BeforeCreate hooks.
const testSchema = `
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

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Shared-cache keeps the schema visible across pooled connections.
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

	if err := db.Exec(testSchema).Error; err != nil {
		t.Fatalf("schema create failed: %v", err)
	}
	return db
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger init failed: %v", err)
	}
	return log
}
