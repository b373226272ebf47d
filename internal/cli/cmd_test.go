package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/studyplan/internal/config"
	"github.com/alexanderramin/studyplan/internal/repository"
	"github.com/alexanderramin/studyplan/internal/service"
	"github.com/alexanderramin/studyplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

var testNow = time.Date(2025, 3, 3, 7, 0, 0, 0, time.UTC)

func testApp(t *testing.T) *App {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)

	subjects := repository.NewSQLiteSubjectRepo(database)
	obligations := repository.NewSQLiteObligationRepo(database)
	calendar := repository.NewSQLiteCalendarRepo(database)
	blocks := repository.NewSQLiteStudyBlockRepo(database)

	cfg := config.DefaultConfig()
	cfg.Timezone = "UTC"

	return &App{
		Subjects:    service.NewSubjectService(subjects),
		Obligations: service.NewObligationService(obligations),
		Calendar:    service.NewCalendarService(calendar),
		Planner:     service.NewPlanService(obligations, calendar, blocks, nil, uow),
		Backfill:    service.NewBackfillService(subjects, calendar, nil, uow),
		Importer:    service.NewCalendarImportService(subjects, uow),
		Config:      cfg,
		ConfigPath:  filepath.Join(t.TempDir(), "config.yaml"),
		Now:         func() time.Time { return testNow },
		// LLM left unwired: blocks use the template text.
	}
}

func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func mustExecute(t *testing.T, app *App, args ...string) string {
	t.Helper()
	out, err := executeCmd(t, app, args...)
	require.NoError(t, err, out)
	return out
}

// --- subject ---

func TestSubjectCmd_AddAndList(t *testing.T) {
	app := testApp(t)

	out := mustExecute(t, app, "subject", "add", "--name", "Genética", "--color", "#83a598")
	assert.Contains(t, out, "Created subject")

	out = mustExecute(t, app, "subject", "list", "--json")
	assert.Equal(t, "Genética", gjson.Get(out, "0.Name").String())
	assert.Equal(t, "#83a598", gjson.Get(out, "0.Color").String())
}

func TestSubjectCmd_AddRequiresName(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "subject", "add")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name")
}

// --- obligation ---

func TestObligationCmd_AddResolvesSubjectAndWeight(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "subject", "add", "--name", "Genética")

	out := mustExecute(t, app, "obligation", "add",
		"--title", "Parcial 1", "--due", "2025-03-10", "--weight", "30%", "--subject", "genética")
	assert.Contains(t, out, "Parcial 1")

	out = mustExecute(t, app, "ob", "list", "--json")
	require.Equal(t, int64(1), gjson.Get(out, "#").Int())
	assert.InDelta(t, 30.0, gjson.Get(out, "0.Weight").Float(), 0.001)
	assert.NotEmpty(t, gjson.Get(out, "0.SubjectID").String())

	out = mustExecute(t, app, "obligation", "list")
	assert.Contains(t, out, "Genética")
}

func TestObligationCmd_AddWithoutTitleNonInteractive(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "obligation", "add", "--due", "2025-03-10")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--title is required")
}

func TestObligationCmd_InvalidWeight(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "obligation", "add", "--title", "TP", "--due", "2025-03-10", "--weight", "120")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid weight")
}

func TestObligationCmd_Remove(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "obligation", "add", "--title", "Quiz", "--due", "2025-03-05")
	out := mustExecute(t, app, "obligation", "list", "--json")
	id := gjson.Get(out, "0.ID").String()

	mustExecute(t, app, "obligation", "remove", id)

	out = mustExecute(t, app, "obligation", "list", "--json")
	assert.Equal(t, int64(0), gjson.Get(out, "#").Int())

	_, err := executeCmd(t, app, "obligation", "remove", id)
	assert.Error(t, err)
}

// --- calendar ---

func TestCalendarCmd_AddAndList(t *testing.T) {
	app := testApp(t)

	mustExecute(t, app, "calendar", "add", "--title", "Laboratorio", "--date", "2025-03-04",
		"--start", "14:00", "--end", "16:00", "--kind", "class")
	mustExecute(t, app, "cal", "add", "--title", "Feriado", "--date", "2025-03-20")

	out := mustExecute(t, app, "calendar", "list", "--days", "7", "--json")
	require.Equal(t, int64(1), gjson.Get(out, "#").Int())
	assert.Equal(t, "Laboratorio", gjson.Get(out, "0.Title").String())
	assert.Equal(t, "14:00", gjson.Get(out, "0.StartTime").String())

	out = mustExecute(t, app, "calendar", "list", "--days", "30")
	assert.Contains(t, out, "Feriado")
	assert.Contains(t, out, "all day")
}

func TestCalendarCmd_RejectsBadTimes(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "calendar", "add", "--title", "Clase", "--date", "2025-03-04",
		"--start", "16:00", "--end", "14:00")
	assert.Error(t, err)
}

func TestCalendarCmd_ImportIsIdempotent(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "subject", "add", "--name", "Genética")

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//studyplan//test//EN",
		"BEGIN:VEVENT",
		"UID:class-1",
		"DTSTAMP:20250101T000000Z",
		"DTSTART:20250303T130000Z",
		"DTEND:20250303T150000Z",
		"RRULE:FREQ=WEEKLY;COUNT=2",
		"SUMMARY:Genética",
		"END:VEVENT",
		"END:VCALENDAR",
	}
	path := filepath.Join(t.TempDir(), "feed.ics")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\r\n")+"\r\n"), 0o600))

	out := mustExecute(t, app, "calendar", "import", path, "--subject", "Genética", "--days", "30", "--json")
	assert.Equal(t, int64(2), gjson.Get(out, "Created").Int())

	out = mustExecute(t, app, "calendar", "import", path, "--subject", "Genética", "--days", "30")
	assert.Contains(t, out, "0 created, 2 updated")

	out = mustExecute(t, app, "calendar", "list", "--days", "30", "--json")
	assert.Equal(t, int64(2), gjson.Get(out, "#").Int())
	assert.Equal(t, "13:00", gjson.Get(out, "0.StartTime").String())
}

// --- plan / blocks ---

func TestPlanCmd_PersistsBlocks(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "obligation", "add", "--title", "Parcial 1", "--due", "2025-03-10", "--weight", "30")

	out := mustExecute(t, app, "plan", "--days", "7", "--json")
	n := gjson.Get(out, "Blocks.#").Int()
	require.Positive(t, n)
	assert.True(t, gjson.Get(out, "Persisted").Bool())
	assert.Equal(t, "2025-03-03", gjson.Get(out, "From").String())

	out = mustExecute(t, app, "blocks", "--days", "7", "--json")
	assert.Equal(t, n, gjson.Get(out, "#").Int())
}

func TestPlanCmd_DryRunSavesNothing(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "obligation", "add", "--title", "Parcial 1", "--due", "2025-03-10")

	out := mustExecute(t, app, "plan", "--days", "7", "--dry-run")
	assert.Contains(t, out, "Study plan 2025-03-03")
	assert.Contains(t, out, "Dry run: nothing was saved.")

	out = mustExecute(t, app, "blocks", "--days", "7")
	assert.Contains(t, out, "No study blocks saved")
}

func TestPlanCmd_ConstraintFlagsOverrideConfig(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "obligation", "add", "--title", "Parcial 1", "--due", "2025-03-10")

	out := mustExecute(t, app, "plan", "--days", "7", "--dry-run", "--json", "--max-per-day", "1",
		"--day-start", "09:00", "--day-end", "11:00")

	perDay := map[string]int{}
	for _, bl := range gjson.Get(out, "Blocks").Array() {
		perDay[bl.Get("Date").String()]++
		assert.GreaterOrEqual(t, bl.Get("StartTime").String(), "09:00")
		assert.LessOrEqual(t, bl.Get("EndTime").String(), "11:00")
	}
	require.NotEmpty(t, perDay)
	for day, n := range perDay {
		assert.Equal(t, 1, n, day)
	}
}

func TestPlanCmd_KeywordFlagReplacesList(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "obligation", "add", "--title", "Parcial 1", "--due", "2025-03-10")

	out := mustExecute(t, app, "plan", "--days", "7", "--dry-run", "--json", "--keyword", "coloquio")
	assert.Equal(t, int64(0), gjson.Get(out, "CriticalCount").Int())
	assert.Equal(t, int64(0), gjson.Get(out, "Blocks.#").Int())
}

func TestPlanCmd_InvalidConstraints(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "plan", "--day-start", "23:00", "--day-end", "09:00")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INVALID_CONSTRAINTS")

	_, err = executeCmd(t, app, "plan", "--day-start", "25:00")
	assert.Error(t, err)

	_, err = executeCmd(t, app, "plan", "--days", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INVALID_HORIZON")
}

func TestBlocksCmd_InvalidFrom(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "blocks", "--from", "next week")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "YYYY-MM-DD")
}

// --- backfill ---

func TestBackfillCmd_FromCandidatesFile(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "subject", "add", "--name", "Genética")
	mustExecute(t, app, "calendar", "add", "--title", "Parcial 1", "--date", "2025-03-20",
		"--kind", "exam", "--subject", "Genética")

	candidates := "- title: Parcial 1\n  weight: 30\n  description: Unidades 1 a 3\n"
	path := filepath.Join(t.TempDir(), "candidates.yaml")
	require.NoError(t, os.WriteFile(path, []byte(candidates), 0o600))

	out := mustExecute(t, app, "backfill", "--subject", "Genética", "--candidates", path, "--dry-run")
	assert.Contains(t, out, "Proposed 1 of 1")

	out = mustExecute(t, app, "backfill", "--subject", "Genética", "--candidates", path, "--json")
	assert.True(t, gjson.Get(out, "Applied").Bool())

	out = mustExecute(t, app, "calendar", "list", "--days", "30", "--json")
	assert.InDelta(t, 30.0, gjson.Get(out, "0.Weight").Float(), 0.001)
	assert.Equal(t, "Unidades 1 a 3", gjson.Get(out, "0.Description").String())
}

func TestBackfillCmd_AcceptsJSONCandidates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "candidates.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"title":"TP 1","weight":10}]`), 0o600))

	got, err := loadCandidates(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "TP 1", got[0].Title)
	require.NotNil(t, got[0].Weight)
	assert.InDelta(t, 10.0, *got[0].Weight, 0.001)
}

func TestBackfillCmd_RequiresOneSource(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "subject", "add", "--name", "Genética")

	_, err := executeCmd(t, app, "backfill", "--subject", "Genética")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one of")
}

func TestBackfillCmd_SyllabusWithoutModel(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "subject", "add", "--name", "Genética")
	mustExecute(t, app, "calendar", "add", "--title", "Parcial 1", "--date", "2025-03-20", "--subject", "Genética")
	path := filepath.Join(t.TempDir(), "syllabus.txt")
	require.NoError(t, os.WriteFile(path, []byte("Primer parcial (30%)"), 0o600))

	_, err := executeCmd(t, app, "backfill", "--subject", "Genética", "--syllabus", path)
	assert.Error(t, err)
}

// --- watch ---

func TestWatchScheduler_RegistersJob(t *testing.T) {
	c, err := newWatchScheduler("0 6 * * *", time.UTC, testApp(t).logger(), func() {})
	require.NoError(t, err)

	entries := c.Entries()
	require.Len(t, entries, 1)
	next := entries[0].Schedule.Next(testNow)
	assert.Equal(t, time.Date(2025, 3, 3, 6, 0, 0, 0, time.UTC).AddDate(0, 0, 1), next)
}

func TestWatchCmd_RejectsInvalidSchedule(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "watch", "--cron", "every morning", "--once")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid schedule")
}

func TestWatchCmd_OnceRunsAPlan(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "obligation", "add", "--title", "Parcial 1", "--due", "2025-03-10")

	out := mustExecute(t, app, "watch", "--once", "--days", "7")
	assert.Contains(t, out, "for 2025-03-03..2025-03-10")

	out = mustExecute(t, app, "blocks", "--days", "7", "--json")
	assert.Positive(t, gjson.Get(out, "#").Int())
}

// --- config ---

func TestConfigCmd_Show(t *testing.T) {
	app := testApp(t)

	out := mustExecute(t, app, "config", "show")
	assert.Contains(t, out, "day_start:")
	assert.Contains(t, out, "watch_cron:")

	out = mustExecute(t, app, "config", "show", "--json")
	assert.Equal(t, int64(14), gjson.Get(out, "horizon_days").Int())
	assert.Equal(t, "UTC", gjson.Get(out, "timezone").String())
}

func TestConfigCmd_InitRefusesOverwrite(t *testing.T) {
	app := testApp(t)

	out := mustExecute(t, app, "config", "init")
	assert.Contains(t, out, app.ConfigPath)
	_, err := os.Stat(app.ConfigPath)
	require.NoError(t, err)

	_, err = executeCmd(t, app, "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")

	mustExecute(t, app, "config", "init", "--force")
	loaded, err := config.Load(app.ConfigPath)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().WatchCron, loaded.WatchCron)
}

func TestRootCmd_ConfigFlagLoadsFile(t *testing.T) {
	app := testApp(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("horizon_days: 3\ntimezone: UTC\n"), 0o600))

	out := mustExecute(t, app, "--config", path, "config", "show", "--json")
	assert.Equal(t, int64(3), gjson.Get(out, "horizon_days").Int())
	assert.Equal(t, "0 6 * * *", gjson.Get(out, "watch_cron").String())
	assert.Equal(t, path, app.ConfigPath)
}

func TestRootCmd_ConfigFlagRejectsInvalidFile(t *testing.T) {
	app := testApp(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("day_start: \"20:00\"\nday_end: \"09:00\"\n"), 0o600))

	_, err := executeCmd(t, app, "--config", path, "plan")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}
