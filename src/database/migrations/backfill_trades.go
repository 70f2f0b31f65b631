package migrations

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"tradejournal/src/model"
	"tradejournal/src/session"
)

// backfillTradeInitialRisk copies size and stop distance from the position
// into trades created before the entry-time risk columns existed.
func backfillTradeInitialRisk(db *gorm.DB) error {
	res := db.Exec(`
		UPDATE trades
		SET initial_size = (SELECT positions.size FROM positions WHERE positions.id = trades.position_id),
		    initial_sl_points = (SELECT positions.sl_points FROM positions WHERE positions.id = trades.position_id)
		WHERE initial_sl_points = 0 OR initial_size = 0`)
	if res.Error != nil {
		return fmt.Errorf("backfill trade initial risk: %w", res.Error)
	}

	logrus.WithField("rows", res.RowsAffected).Info("[migrations] trade initial risk backfilled")
	return nil
}

// backfillTradeSessions labels older trades with the market session they
// were opened in.
func backfillTradeSessions(db *gorm.DB) error {
	const batch = 500

	var lastID uint
	total := 0
	for {
		var trades []model.Trade
		err := db.
			Select("id", "opened_at").
			Where("(session IS NULL OR session = '') AND id > ?", lastID).
			Order("id ASC").
			Limit(batch).
			Find(&trades).Error
		if err != nil {
			return fmt.Errorf("load trades without session: %w", err)
		}
		if len(trades) == 0 {
			break
		}

		for _, t := range trades {
			label := session.Detect(t.OpenedAt)
			if err := db.Model(&model.Trade{}).Where("id = ?", t.ID).Update("session", string(label)).Error; err != nil {
				return fmt.Errorf("label trade %d: %w", t.ID, err)
			}
			lastID = t.ID
		}
		total += len(trades)
	}

	logrus.WithField("rows", total).Info("[migrations] trade sessions backfilled")
	return nil
}
