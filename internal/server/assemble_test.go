package server

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/assessmentslol/assessments/internal/db"
	"github.com/assessmentslol/assessments/internal/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompanyListItems(t *testing.T) {
	a := db.Company{ID: uuid.New(), Name: "Acme"}
	b := db.Company{ID: uuid.New(), Name: "Globex"}
	early := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	late := early.Add(48 * time.Hour)

	items := companyListItems([]db.Company{a, b}, []db.CompanyActivity{
		{CompanyID: a.ID, Score: intPtr(0), CreatedAt: late},
		{CompanyID: a.ID, Score: intPtr(600), CreatedAt: early},
	})
	require.Len(t, items, 2)

	assert.Equal(t, 2, items[0].SubmissionCount)
	assert.Equal(t, 600.0, items[0].AverageScore)
	assert.Equal(t, late, *items[0].RecentActivity)

	assert.Equal(t, 0, items[1].SubmissionCount)
	assert.Nil(t, items[1].RecentActivity)

	data, err := json.Marshal(items[1])
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"`+b.ID.String()+`","name":"Globex","icon":null,"link":null,
		"submissionCount":0,"averageScore":0,"recentActivity":null}`, string(data))
}

func TestCompanySubmissions_MissingRole(t *testing.T) {
	items := companySubmissions([]db.Submission{{ID: uuid.New(), Platform: types.PlatformHackerRank}})
	require.Len(t, items, 1)

	data, err := json.Marshal(items[0])
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, map[string]any{"title": "", "type": ""}, out["role"])
}
