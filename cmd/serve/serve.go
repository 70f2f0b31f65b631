package serve

import (
	"gorm.io/gorm"

	"tradejournal/src/database"
	"tradejournal/src/journal"
	"tradejournal/src/repository"
	"tradejournal/src/server"
)

// Open connects to the configured database and builds the engine on top of it.
func Open(migrate bool) (*gorm.DB, *journal.Engine, error) {
	dbConfig := database.GetConfig()
	db, err := database.Connect(dbConfig)
	if err != nil {
		return nil, nil, err
	}
	if migrate {
		if err := database.Migrate(db); err != nil {
			database.Close(db)
			return nil, nil, err
		}
	}

	opts := []journal.Option{journal.WithConfig(journal.GetConfig())}
	if dbConfig.Serializable {
		opts = append(opts, journal.WithSerializable())
	}
	return db, journal.NewEngine(db, opts...), nil
}

func Start() error {
	db, engine, err := Open(true)
	if err != nil {
		return err
	}
	defer database.Close(db)
	config := server.GetConfig()
	server.StartServer(config, server.NewRouter(engine, repository.NewUserRepository(db), config))
	return nil
}
