package authsrc

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starcasualty/popmatch/internal/model"
)

func newMockGateway(t *testing.T) (*Gateway, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewGateway(mock), mock
}

func TestFindCandidates(t *testing.T) {
	g, mock := newMockGateway(t)
	created := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT f\.file_path, f\.date_created, f\.file_id, t\.policy_id`).
		WithArgs("Proof of Prior", 100).
		WillReturnRows(pgxmock.NewRows([]string{"file_path", "date_created", "file_id", "policy_id"}).
			AddRow("/claims/auto/SC001234.pdf", created, "SC001234", "482144").
			AddRow("/claims/auto/SC005678.pdf", created.AddDate(0, 0, -1), "SC005678", "482199"))

	refs, err := g.FindCandidates(context.Background(), "Proof of Prior", 100)
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, model.DocumentReference{
		FilePath:    "/claims/auto/SC001234.pdf",
		DateCreated: created,
		FileID:      "SC001234",
		PolicyID:    "482144",
	}, refs[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindCandidates_QueryError(t *testing.T) {
	g, mock := newMockGateway(t)

	mock.ExpectQuery(`SELECT f\.file_path`).
		WithArgs("Proof of Prior", 1).
		WillReturnError(fmt.Errorf("connection refused"))

	_, err := g.FindCandidates(context.Background(), "Proof of Prior", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "find candidates")
}

func TestFindPolicyFacts(t *testing.T) {
	g, mock := newMockGateway(t)

	insured := "JOHN DOE"
	eff := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	exp := time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC)
	code := 104

	mock.ExpectQuery(`SELECT policy_id, named_insured, effective_date`).
		WithArgs("482144").
		WillReturnRows(pgxmock.NewRows([]string{
			"policy_id", "named_insured", "effective_date", "expiration_date", "agent_code", "prior_carrier",
		}).AddRow("482144", &insured, &eff, &exp, &code, (*string)(nil)))

	facts, err := g.FindPolicyFacts(context.Background(), "482144")
	require.NoError(t, err)
	require.Len(t, facts, 1)

	f := facts[0]
	assert.Equal(t, "482144", f.PolicyID)
	require.NotNil(t, f.NamedInsured)
	assert.Equal(t, "JOHN DOE", *f.NamedInsured)
	require.NotNil(t, f.AgentCode)
	assert.Equal(t, 104, *f.AgentCode)
	assert.Nil(t, f.PriorCarrier)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindPolicyFacts_NoRows(t *testing.T) {
	g, mock := newMockGateway(t)

	mock.ExpectQuery(`SELECT policy_id, named_insured`).
		WithArgs("999999").
		WillReturnRows(pgxmock.NewRows([]string{
			"policy_id", "named_insured", "effective_date", "expiration_date", "agent_code", "prior_carrier",
		}))

	facts, err := g.FindPolicyFacts(context.Background(), "999999")
	require.NoError(t, err)
	assert.Empty(t, facts)
}

func TestUpsertMatchReport(t *testing.T) {
	g, mock := newMockGateway(t)

	insured := "John Doe"
	expDate := "2024-07-15"
	code := 104
	report := model.MatchReport{
		PolicyID:            "482144",
		FileID:              "SC001234",
		NamedInsured:        &insured,
		ExpirationDate:      &expDate,
		AgentCode:           &code,
		AllFieldsMatch:      false,
		NamedInsuredMatch:   true,
		EffectiveDateMatch:  true,
		ExpirationDateMatch: true,
		AgentCodeMatch:      false,
		PriorCarrierMatch:   true,
		Remarks:             "<match_result/>",
	}

	mock.ExpectExec(`INSERT INTO pop_match_results`).
		WithArgs("482144", "SC001234", &insured, &expDate, &code, (*string)(nil),
			false, true, true, true, false, true, "<match_result/>").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, g.UpsertMatchReport(context.Background(), report))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertMatchReport_Error(t *testing.T) {
	g, mock := newMockGateway(t)

	mock.ExpectExec(`INSERT INTO pop_match_results`).
		WillReturnError(fmt.Errorf("relation does not exist"))

	err := g.UpsertMatchReport(context.Background(), model.MatchReport{PolicyID: "P", FileID: "F"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upsert match report")
}

func TestDumpMatchReports(t *testing.T) {
	g, mock := newMockGateway(t)
	updated := time.Date(2024, 1, 16, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT policy_id, file_id, all_fields_match, updated_at`).
		WillReturnRows(pgxmock.NewRows([]string{"policy_id", "file_id", "all_fields_match", "updated_at"}).
			AddRow("482144", "SC001234", true, updated).
			AddRow("482199", "SC005678", false, updated.Add(-time.Hour)))

	rows, err := g.DumpMatchReports(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"482144", "SC001234", "true", updated.String()}, rows[0])
	assert.Equal(t, "false", rows[1][2])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDumpMatchReports_QueryError(t *testing.T) {
	g, mock := newMockGateway(t)

	mock.ExpectQuery(`SELECT policy_id, file_id, all_fields_match, updated_at`).
		WillReturnError(fmt.Errorf("permission denied"))

	_, err := g.DumpMatchReports(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dump match reports")
}

func TestMigrateResults(t *testing.T) {
	g, mock := newMockGateway(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS pop_match_results`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, g.MigrateResults(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
