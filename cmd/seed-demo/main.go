package main

import (
	"context"
	"fmt"
	"time"

	"github.com/IBA-HOK/user-attendance-record/internal/config"
	"github.com/IBA-HOK/user-attendance-record/internal/database"
	"github.com/IBA-HOK/user-attendance-record/internal/logger"
	"github.com/IBA-HOK/user-attendance-record/internal/model"
	"github.com/IBA-HOK/user-attendance-record/internal/repository"
)

// seed-demo fills an empty database with a realistic weekly timetable,
// a bank of PCs, and students with default slot assignments. Meant for
// local development against real endpoints.
func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	slotRepo := repository.NewClassSlotRepository(pool)
	pcRepo := repository.NewPCRepository(pool)
	studentRepo := repository.NewStudentRepository(pool)

	fmt.Println("=== Seeding Demo Data ===")

	// Two periods per weekday, Monday through Saturday.
	type window struct {
		period     int
		start, end string
	}
	windows := []window{
		{1, "16:30", "17:50"},
		{2, "18:00", "19:20"},
	}
	dayNames := []string{"日", "月", "火", "水", "木", "金", "土"}

	var slotIDs []int
	for dow := 1; dow <= 6; dow++ {
		for _, w := range windows {
			slot := &model.ClassSlot{
				DayOfWeek: dow,
				Period:    w.period,
				SlotName:  fmt.Sprintf("%s曜%d限", dayNames[dow], w.period),
				StartTime: w.start,
				EndTime:   w.end,
			}
			if err := slotRepo.Create(ctx, slot); err != nil {
				log.Fatal().Err(err).Str("slot", slot.SlotName).Msg("Failed to create class slot")
			}
			slotIDs = append(slotIDs, slot.SlotID)
		}
	}
	fmt.Printf("Created %d class slots\n", len(slotIDs))

	for i := 1; i <= 12; i++ {
		pc := &model.PC{
			PCID:   fmt.Sprintf("PC%02d", i),
			PCName: fmt.Sprintf("ノートPC %02d", i),
		}
		if err := pcRepo.Create(ctx, pc); err != nil {
			log.Fatal().Err(err).Str("pc_id", pc.PCID).Msg("Failed to create PC")
		}
	}
	fmt.Println("Created 12 PCs")

	names := []string{
		"佐藤 蓮", "鈴木 陽葵", "高橋 湊", "田中 凛", "伊藤 蒼",
		"渡辺 芽依", "山本 樹", "中村 紬", "小林 朝陽", "加藤 結菜",
		"吉田 悠真", "山田 琴音", "佐々木 颯", "山口 美月", "松本 大和",
		"井上 心春", "木村 陸", "林 柚葉", "斎藤 碧", "清水 杏",
	}
	levels := []string{"初級", "中級", "上級"}

	for i, name := range names {
		pcID := fmt.Sprintf("PC%02d", i%12+1)
		slotID := slotIDs[i%len(slotIDs)]
		level := levels[i%len(levels)]
		st := &model.Student{
			UserID:        fmt.Sprintf("S%04d", i+1),
			Name:          name,
			UserLevel:     &level,
			DefaultPCID:   &pcID,
			DefaultSlotID: &slotID,
		}
		if err := studentRepo.Create(ctx, st); err != nil {
			log.Fatal().Err(err).Str("user_id", st.UserID).Msg("Failed to create student")
		}
	}
	fmt.Printf("Created %d students with default assignments\n", len(names))

	fmt.Println("\nDone.")
}
