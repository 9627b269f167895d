package journal

import (
	"errors"
	"time"

	"github.com/bcfl/predict/internal/logger"
	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
)

// startEmbedded starts an in-process NATS server with JetStream enabled.
// storeDir only backs JetStream bookkeeping; journal streams use memory storage.
func startEmbedded(storeDir string) (*server.Server, error) {
	logger.Debug("Starting embedded NATS server (store dir %s)", storeDir)

	opts := &server.Options{
		JetStream:  true,
		StoreDir:   storeDir,
		DontListen: true, // No network ports - in-process only
		NoLog:      true,
		NoSigs:     true,
	}

	ns, err := server.NewServer(opts)
	if err != nil {
		return nil, err
	}

	go ns.Start()

	if !ns.ReadyForConnections(4 * time.Second) {
		ns.Shutdown()
		return nil, errors.New("nats server failed to start within timeout")
	}
	return ns, nil
}

// connectInProcess opens a connection that bypasses the network stack.
func connectInProcess(ns *server.Server) (*nats.Conn, error) {
	return nats.Connect("", nats.InProcessServer(ns))
}

// shutdown drains the connection then stops the server, each bounded so a
// stuck drain cannot hang program exit.
func shutdown(nc *nats.Conn, ns *server.Server) error {
	if nc != nil {
		drainDone := make(chan error, 1)
		go func() {
			drainDone <- nc.Drain()
		}()

		select {
		case err := <-drainDone:
			if err != nil {
				logger.Warn("NATS drain failed, forcing close: %v", err)
				nc.Close()
			}
		case <-time.After(2 * time.Second):
			logger.Warn("NATS drain timed out after 2s, forcing close")
			nc.Close()
		}
	}

	if ns == nil {
		return nil
	}
	ns.Shutdown()

	shutdownDone := make(chan struct{})
	go func() {
		ns.WaitForShutdown()
		close(shutdownDone)
	}()

	select {
	case <-shutdownDone:
		return nil
	case <-time.After(5 * time.Second):
		return errors.New("nats server shutdown timed out")
	}
}
