package routes

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"time"

	"voidreach_combat/internal/data"
	"voidreach_combat/internal/game"
	"voidreach_combat/pkg/arguments"
	"voidreach_combat/pkg/background"
	"voidreach_combat/pkg/db"
	"voidreach_combat/pkg/dispatcher"
	"voidreach_combat/pkg/logger"

	"github.com/gorilla/handlers"
)

// Server :
// Defines the HTTP front door onto the encounter lifecycle (C5):
// it owns nothing of the combat state itself but wires the proxy
// layer into a `game.Lifecycle` and dispatches requests to it.
//
// The `port` allows to determine which port should be used by
// the server to accept incoming requests.
//
// The `router` defines the element used to perform the routing
// and receive clients requests.
//
// The `lifecycle` owns the encounter state machine and is the
// single entry point for every mutating combat operation.
//
// The `snapshots` builds the read-only sector view (C9) served by
// the snapshot route.
//
// The `proxy` is the raw DB proxy, kept around for future routes
// that don't yet warrant their own typed proxy.
//
// The `log` allows to perform most of the logging on any action
// done by the server.
//
// The `sweeper` is the background process driving rounds forward
// past their deadline when no submission completes them naturally.
type Server struct {
	port   int
	router *dispatcher.Router

	lifecycle *game.Lifecycle
	snapshots game.SnapshotBuilder

	proxy db.Proxy
	log   logger.Logger

	sweeper *background.Process
}

// ErrUnexpectedServeError : Indicates that an error occurred
// while serving the root endpoint.
var ErrUnexpectedServeError = fmt.Errorf("Unexpected error occurred while serving http requests")

// ErrServerShutdownError : Indicates that an error occurred
// while shutting down the server.
var ErrServerShutdownError = fmt.Errorf("Unexpected error occurred while shutting down the server")

// NewServer :
// Builds every proxy and the `game.Lifecycle` they back, reading
// the combat timing knobs from the environment, and returns a
// server ready to `Serve`.
//
// The `port` defines the port to listen to by the server.
//
// The `dbase` represents the database connection to use to build
// every proxy needed to answer clients' requests.
//
// The `log` is used to notify from various processes in the server
// and keep track of the activity.
func NewServer(port int, dbase *db.DB, log logger.Logger) Server {
	ships := data.NewShipProxy(dbase, log)
	garrisons := data.NewGarrisonProxy(dbase, log)
	salvage := data.NewSalvageProxy(dbase, log)
	characters := data.NewCharacterProxy(dbase, log)
	corps := data.NewCorpProxy(dbase, log)
	templates := data.NewShipTemplateProxy(dbase, log)
	events := data.NewEventProxy(dbase, log)
	encounters := data.NewEncounterProxy(dbase, log)

	combatCfg := arguments.ParseCombatConfig()

	loader := game.ParticipantLoader{
		Ships:      ships,
		Garrisons:  garrisons,
		Characters: characters,
		Templates:  templates,
	}

	recipients := game.RecipientResolver{
		Ships: ships,
		Corps: corps,
	}

	snapshots := game.SnapshotBuilder{
		Ships:     ships,
		Garrisons: garrisons,
		Salvage:   salvage,
	}

	lifecycle := &game.Lifecycle{
		Encounters: encounters,
		Ships:      ships,
		Garrisons:  garrisons,
		Salvage:    salvage,
		Characters: characters,
		Events:     events,

		Loader:     loader,
		Recipients: recipients,
		Snapshots:  snapshots,
		// The map subsystem is deliberately out of scope for this
		// core (see `external.MapService`); a fleeing combatant
		// with no chosen destination simply isn't relocated until
		// one is wired in.
		Map: nil,

		RoundTimeout:        time.Duration(combatCfg.RoundTimeoutSeconds) * time.Second,
		ShieldRegenPerRound: combatCfg.ShieldRegenPerRound,
		SalvageTTL:          time.Duration(combatCfg.SalvageTTLSeconds) * time.Second,

		Log: log,
	}

	sweeper := game.NewDeadlineSweeper(lifecycle, 5*time.Second, log)

	return Server{
		port:      port,
		router:    nil,
		lifecycle: lifecycle,
		snapshots: snapshots,
		proxy:     db.NewProxy(dbase),
		log:       log,
		sweeper:   sweeper,
	}
}

// routes :
// Registers every combat route on the internal router.
func (s *Server) routes() {
	s.router.HandleFunc("/combat/encounters", dispatcher.WithSafetyNet(s.log, s.handleCreateEncounter)).Methods("POST")
	s.router.HandleFunc("/combat/actions", dispatcher.WithSafetyNet(s.log, s.handleSubmitAction)).Methods("POST")
	s.router.HandleFunc("/combat/join", dispatcher.WithSafetyNet(s.log, s.handleJoinSector)).Methods("POST")
	s.router.HandleFunc("/combat/sectors", dispatcher.WithSafetyNet(s.log, s.handleSectorSnapshot)).Methods("GET")
}

// Serve :
// Used to start listening to the port associated to this
// server and handle incoming requests. This will return
// an error in case something went wrong while listening
// to the port.
//
// Returns any error occurred during the serve operation.
func (s *Server) Serve() error {
	// Create a new router if one is not already started.
	if s.router != nil {
		panic(fmt.Errorf("Cannot start serving combat server, process already running"))
	}

	s.router = dispatcher.NewRouter(s.log)

	// Setup routes.
	s.routes()

	// Wrap the router in a server allowing all origins.
	aMethods := handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	aOrigins := handlers.AllowedOrigins([]string{"*"})
	aHeaders := handlers.AllowedHeaders([]string{"Origin", "X-Requested-With", "Content-Type", "Accept", "Authorization"})
	corsRouter := handlers.CORS(aHeaders, aOrigins, aMethods)(s.router)

	// Create the server which will serve requests. The
	// idiom used to serve requests is inspired from the
	// following link:
	// https://stackoverflow.com/questions/39320025/how-to-stop-http-listenandserve
	// which describes a way to gracefully shutdown a
	// HTTP server. We figure it's worth doing it.
	server := &http.Server{
		Addr:    ":" + strconv.FormatInt(int64(s.port), 10),
		Handler: corsRouter,
	}

	// Start the sweeper driving rounds past their deadline.
	s.sweeper.Start()

	// Serve the root path.
	var serveErr error
	wg := sync.WaitGroup{}
	wg.Add(1)

	go func() {
		defer func() {
			if err := recover(); err != nil {
				s.log.Trace(logger.Fatal, "server", fmt.Sprintf("Caught unexpected error while serving requests (err: %v)", err))

				serveErr = ErrUnexpectedServeError
			}

			wg.Done()

			s.log.Trace(logger.Notice, "server", "Server has stopped")
		}()

		s.log.Trace(logger.Notice, "server", "Server has started")

		// Serve the main endpoint and panic in case something
		// bad occurs in the process.
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			panic(err)
		}
	}()

	// Setting up signal capturing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	// Waiting for SIGINT (pkill -2).
	<-stop

	s.shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil && err != http.ErrServerClosed {
		s.log.Trace(logger.Error, "server", fmt.Sprintf("Caught unexpected error while shutting down server (err: %v)", err))

		return ErrServerShutdownError
	}

	// Wait for `ListenAndServe` to perform cleanup.
	wg.Wait()

	return serveErr
}

// shutdown :
// Requests the server to gracefully shutdown and
// terminate all the processes that are pending
// before doing so.
func (s *Server) shutdown() {
	s.sweeper.Stop()
}
