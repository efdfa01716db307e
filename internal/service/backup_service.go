package service

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/IBA-HOK/user-attendance-record/internal/model"
	"github.com/IBA-HOK/user-attendance-record/internal/repository"
)

// ErrBadArchive is returned when an uploaded archive is not a backup
// produced by ExportZip.
var ErrBadArchive = errors.New("archive is not a valid backup")

// Archive entry names. Import matches on these exactly.
const (
	fileStudents   = "students.csv"
	filePCs        = "pcs.csv"
	fileClassSlots = "class_slots.csv"
	fileSchedules  = "schedules.csv"
	fileEntryLogs  = "entry_logs.csv"
)

// BackupService implements data export and import: a ZIP of per-table
// CSVs for backup round-trips, and an Excel roster sheet for handing to
// staff who work outside the system.
type BackupService struct {
	backupRepo *repository.BackupRepository
	roster     *RosterService
	log        zerolog.Logger
}

// NewBackupService creates a new BackupService.
func NewBackupService(backupRepo *repository.BackupRepository, roster *RosterService, log zerolog.Logger) *BackupService {
	return &BackupService{
		backupRepo: backupRepo,
		roster:     roster,
		log:        log.With().Str("component", "backup_service").Logger(),
	}
}

// ExportZip snapshots the operational tables into a ZIP of CSVs.
func (s *BackupService) ExportZip(ctx context.Context) ([]byte, error) {
	snap, err := s.backupRepo.Export(ctx)
	if err != nil {
		return nil, fmt.Errorf("export snapshot: %w", err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	writeCSV := func(name string, records [][]string) error {
		w, err := zw.Create(name)
		if err != nil {
			return err
		}
		cw := csv.NewWriter(w)
		if err := cw.WriteAll(records); err != nil {
			return err
		}
		cw.Flush()
		return cw.Error()
	}

	students := [][]string{{"user_id", "name", "email", "user_level", "default_pc_id", "default_slot_id"}}
	for _, st := range snap.Students {
		students = append(students, []string{
			st.UserID, st.Name, strVal(st.Email), strVal(st.UserLevel),
			strVal(st.DefaultPCID), intVal(st.DefaultSlotID),
		})
	}
	pcs := [][]string{{"pc_id", "pc_name", "notes"}}
	for _, pc := range snap.PCs {
		pcs = append(pcs, []string{pc.PCID, pc.PCName, strVal(pc.Notes)})
	}
	slots := [][]string{{"slot_id", "day_of_week", "period", "slot_name", "start_time", "end_time"}}
	for _, sl := range snap.ClassSlots {
		slots = append(slots, []string{
			strconv.Itoa(sl.SlotID), strconv.Itoa(sl.DayOfWeek), strconv.Itoa(sl.Period),
			sl.SlotName, sl.StartTime, sl.EndTime,
		})
	}
	schedules := [][]string{{"user_id", "class_date", "slot_id", "status", "assigned_pc_id", "notes"}}
	for _, sc := range snap.Schedules {
		schedules = append(schedules, []string{
			sc.UserID, sc.ClassDate, intVal(sc.SlotID), string(sc.Status),
			strVal(sc.AssignedPCID), strVal(sc.Notes),
		})
	}
	logs := [][]string{{"user_id", "log_type", "logged_at"}}
	for _, l := range snap.EntryLogs {
		logs = append(logs, []string{l.UserID, l.LogType, l.LoggedAt.UTC().Format(time.RFC3339)})
	}

	for _, f := range []struct {
		name    string
		records [][]string
	}{
		{fileStudents, students},
		{filePCs, pcs},
		{fileClassSlots, slots},
		{fileSchedules, schedules},
		{fileEntryLogs, logs},
	} {
		if err := writeCSV(f.name, f.records); err != nil {
			return nil, fmt.Errorf("write %s: %w", f.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}

	s.log.Info().
		Int("students", len(snap.Students)).
		Int("schedules", len(snap.Schedules)).
		Int("entry_logs", len(snap.EntryLogs)).
		Msg("backup exported")
	return buf.Bytes(), nil
}

// ImportZip restores the operational tables from a backup archive. The
// restore is one transaction: a malformed archive or constraint
// violation leaves current data untouched.
func (s *BackupService) ImportZip(ctx context.Context, data []byte) error {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadArchive, err)
	}

	tables := map[string][][]string{}
	for _, f := range zr.File {
		switch f.Name {
		case fileStudents, filePCs, fileClassSlots, fileSchedules, fileEntryLogs:
		default:
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("%w: open %s: %v", ErrBadArchive, f.Name, err)
		}
		records, err := csv.NewReader(rc).ReadAll()
		rc.Close()
		if err != nil {
			return fmt.Errorf("%w: read %s: %v", ErrBadArchive, f.Name, err)
		}
		tables[f.Name] = records
	}

	for _, name := range []string{fileStudents, filePCs, fileClassSlots, fileSchedules, fileEntryLogs} {
		if _, ok := tables[name]; !ok {
			return fmt.Errorf("%w: missing %s", ErrBadArchive, name)
		}
	}

	snap, err := buildSnapshot(tables)
	if err != nil {
		return err
	}

	if err := s.backupRepo.Restore(ctx, snap); err != nil {
		return fmt.Errorf("restore snapshot: %w", err)
	}

	s.log.Info().
		Int("students", len(snap.Students)).
		Int("schedules", len(snap.Schedules)).
		Int("entry_logs", len(snap.EntryLogs)).
		Msg("backup imported")
	return nil
}

// ExportRosterExcel renders the merged roster for a date as an Excel
// sheet, one row per roster entry.
func (s *BackupService) ExportRosterExcel(ctx context.Context, date string) ([]byte, error) {
	roster, err := s.roster.BuildRoster(ctx, date)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	const sheet = "Roster"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, err
	}

	headers := []string{"時限", "コマ", "開始", "終了", "生徒ID", "氏名", "レベル", "状態", "PC", "備考"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	endCell, _ := excelize.CoordinatesToCellName(len(headers), 1)
	f.SetCellStyle(sheet, "A1", endCell, headerStyle)

	for i, e := range roster {
		row := i + 2
		values := []interface{}{
			e.Period, e.SlotName, e.StartTime, e.EndTime,
			strVal(e.UserID), strVal(e.UserName), strVal(e.UserLevel),
			string(e.Status), strVal(e.PCName), strVal(e.Notes),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheet, cell, v)
		}
	}
	f.SetColWidth(sheet, "B", "B", 18)
	f.SetColWidth(sheet, "F", "F", 18)
	f.SetColWidth(sheet, "J", "J", 30)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func buildSnapshot(tables map[string][][]string) (*model.Snapshot, error) {
	snap := &model.Snapshot{}

	if err := eachRow(tables[fileStudents], fileStudents, 6, func(rec []string) error {
		snap.Students = append(snap.Students, model.Student{
			UserID:        rec[0],
			Name:          rec[1],
			Email:         strPtr(rec[2]),
			UserLevel:     strPtr(rec[3]),
			DefaultPCID:   strPtr(rec[4]),
			DefaultSlotID: intPtr(rec[5]),
		})
		return nil
	}); err != nil {
		return nil, err
	}

	if err := eachRow(tables[filePCs], filePCs, 3, func(rec []string) error {
		snap.PCs = append(snap.PCs, model.PC{PCID: rec[0], PCName: rec[1], Notes: strPtr(rec[2])})
		return nil
	}); err != nil {
		return nil, err
	}

	if err := eachRow(tables[fileClassSlots], fileClassSlots, 6, func(rec []string) error {
		slotID, err := strconv.Atoi(rec[0])
		if err != nil {
			return err
		}
		dow, err := strconv.Atoi(rec[1])
		if err != nil {
			return err
		}
		period, err := strconv.Atoi(rec[2])
		if err != nil {
			return err
		}
		snap.ClassSlots = append(snap.ClassSlots, model.ClassSlot{
			SlotID: slotID, DayOfWeek: dow, Period: period,
			SlotName: rec[3], StartTime: rec[4], EndTime: rec[5],
		})
		return nil
	}); err != nil {
		return nil, err
	}

	if err := eachRow(tables[fileSchedules], fileSchedules, 6, func(rec []string) error {
		snap.Schedules = append(snap.Schedules, model.Schedule{
			UserID:       rec[0],
			ClassDate:    rec[1],
			SlotID:       intPtr(rec[2]),
			Status:       model.ScheduleStatus(rec[3]),
			AssignedPCID: strPtr(rec[4]),
			Notes:        strPtr(rec[5]),
		})
		return nil
	}); err != nil {
		return nil, err
	}

	if err := eachRow(tables[fileEntryLogs], fileEntryLogs, 3, func(rec []string) error {
		loggedAt, err := time.Parse(time.RFC3339, rec[2])
		if err != nil {
			return err
		}
		snap.EntryLogs = append(snap.EntryLogs, model.EntryLog{
			UserID: rec[0], LogType: rec[1], LoggedAt: loggedAt,
		})
		return nil
	}); err != nil {
		return nil, err
	}

	return snap, nil
}

// eachRow applies fn to every data row, skipping the header and
// wrapping any failure as ErrBadArchive.
func eachRow(records [][]string, name string, cols int, fn func(rec []string) error) error {
	if len(records) == 0 {
		return fmt.Errorf("%w: %s has no header", ErrBadArchive, name)
	}
	for i, rec := range records[1:] {
		if len(rec) != cols {
			return fmt.Errorf("%w: %s row %d has %d columns, want %d", ErrBadArchive, name, i+2, len(rec), cols)
		}
		if err := fn(rec); err != nil {
			return fmt.Errorf("%w: %s row %d: %v", ErrBadArchive, name, i+2, err)
		}
	}
	return nil
}

func strVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func intVal(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func intPtr(s string) *int {
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}
