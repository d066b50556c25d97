package controllers

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"member-portal-api/config"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// listStep scripts one expected statement against the handler under test.
// Steps with exec set script writes, the rest script SELECTs.
type listStep struct {
	pattern *regexp.Regexp
	exec    bool
	columns []string
	rows    [][]driver.Value
	rowsHit int64
}

type listDB struct {
	steps []*listStep
}

func (db *listDB) next(query string, exec bool) (*listStep, error) {
	if len(db.steps) == 0 {
		return nil, fmt.Errorf("unexpected query: %s", query)
	}
	step := db.steps[0]
	if step.exec != exec || !step.pattern.MatchString(query) {
		return nil, fmt.Errorf("unexpected query: %s", query)
	}
	db.steps = db.steps[1:]
	return step, nil
}

type listDriver struct {
	db *listDB
}

func (d *listDriver) Open(string) (driver.Conn, error) {
	return &listConn{db: d.db}, nil
}

type listConn struct {
	db *listDB
}

func (c *listConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepare not supported")
}

func (c *listConn) Close() error { return nil }

func (c *listConn) Begin() (driver.Tx, error) {
	return listTx{}, nil
}

type listTx struct{}

func (listTx) Commit() error   { return nil }
func (listTx) Rollback() error { return nil }

func (c *listConn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	step, err := c.db.next(query, false)
	if err != nil {
		return nil, err
	}
	return &listRows{columns: step.columns, rows: step.rows}, nil
}

func (c *listConn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	step, err := c.db.next(query, true)
	if err != nil {
		return nil, err
	}
	return listResult{rowsAffected: step.rowsHit}, nil
}

type listResult struct {
	rowsAffected int64
}

func (r listResult) LastInsertId() (int64, error) { return 0, nil }

func (r listResult) RowsAffected() (int64, error) { return r.rowsAffected, nil }

type listRows struct {
	columns []string
	rows    [][]driver.Value
	idx     int
}

func (r *listRows) Columns() []string { return r.columns }

func (r *listRows) Close() error { return nil }

func (r *listRows) Next(dest []driver.Value) error {
	if r.idx >= len(r.rows) {
		return io.EOF
	}
	row := r.rows[r.idx]
	for i := range dest {
		dest[i] = nil
	}
	for i := range row {
		dest[i] = row[i]
	}
	r.idx++
	return nil
}

// useListDB points config.DB at a scripted connection for the duration of one
// test and restores the previous value afterwards.
func useListDB(t *testing.T, steps []*listStep) *listDB {
	t.Helper()
	state := &listDB{steps: steps}
	driverName := fmt.Sprintf("listing_%d", time.Now().UnixNano())
	sql.Register(driverName, &listDriver{db: state})

	sqlDB, err := sql.Open(driverName, "")
	if err != nil {
		t.Fatalf("failed to open sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to create gorm db: %v", err)
	}

	previous := config.DB
	config.DB = gormDB
	t.Cleanup(func() {
		config.DB = previous
		_ = sqlDB.Close()
	})
	return state
}

var performanceColumns = []string{
	"record_id", "user_id", "record_type", "record_year", "title",
	"description", "amount", "quantity", "status", "reviewer_comment",
	"submitted_at", "reviewed_at", "create_at", "update_at", "delete_at",
}

func performanceRow(id, userID int64) []driver.Value {
	created := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)
	return []driver.Value{
		id, userID, "sales", int64(2026), "Q1 export contract",
		nil, 1500.0, nil, "submitted", nil,
		created, nil, created, created, nil,
	}
}

func TestGetAdminPerformanceRecordsCamelCaseFilters(t *testing.T) {
	gin.SetMode(gin.TestMode)

	state := useListDB(t, []*listStep{
		{
			// memberId must narrow the count, pageSize the limit.
			pattern: regexp.MustCompile("SELECT count\\(\\*\\) FROM `performance_records`.*user_id = \\?"),
			columns: []string{"count(*)"},
			rows:    [][]driver.Value{{int64(1)}},
		},
		{
			pattern: regexp.MustCompile("SELECT \\* FROM `performance_records`.*user_id = \\?.*LIMIT \\?"),
			columns: performanceColumns,
			rows:    [][]driver.Value{performanceRow(3, 5)},
		},
		{
			// Preload("User") for the returned record.
			pattern: regexp.MustCompile("SELECT \\* FROM `users`"),
			columns: []string{"user_id", "email"},
			rows:    [][]driver.Value{},
		},
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/admin/performance?memberId=5&pageSize=10", nil)

	GetAdminPerformanceRecords(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Items    []json.RawMessage `json:"items"`
		Total    *int64            `json:"total"`
		Page     *int              `json:"page"`
		PageSize *int              `json:"page_size"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(body.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(body.Items))
	}
	if body.Total == nil || *body.Total != 1 {
		t.Fatalf("expected total 1, got %v", body.Total)
	}
	if body.Page == nil || *body.Page != 1 {
		t.Fatalf("expected page 1, got %v", body.Page)
	}
	if body.PageSize == nil || *body.PageSize != 10 {
		t.Fatalf("expected page_size 10, got %v", body.PageSize)
	}

	if len(state.steps) != 0 {
		t.Fatalf("unmet query expectations: %d", len(state.steps))
	}
}

func TestUpdatePerformanceRecordKeepsAmountWhenOmitted(t *testing.T) {
	gin.SetMode(gin.TestMode)

	row := performanceRow(3, 42)
	row[6] = 500.0 // amount
	row[8] = "draft"

	state := useListDB(t, []*listStep{
		{
			pattern: regexp.MustCompile("SELECT \\* FROM `performance_records`.*record_id = \\?"),
			columns: performanceColumns,
			rows:    [][]driver.Value{row},
		},
		{
			pattern: regexp.MustCompile("UPDATE `performance_records` SET"),
			exec:    true,
			rowsHit: 1,
		},
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body := `{"record_type":"sales","record_year":2026,"title":"Q1 export contract"}`
	c.Request = httptest.NewRequest(http.MethodPut, "/performance/3", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "3"}}
	c.Set("userID", 42)

	UpdatePerformanceRecord(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Record struct {
			Amount float64 `json:"amount"`
		} `json:"record"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Record.Amount != 500 {
		t.Fatalf("omitting amount must keep the stored value, got %v", resp.Record.Amount)
	}

	if len(state.steps) != 0 {
		t.Fatalf("unmet query expectations: %d", len(state.steps))
	}
}
