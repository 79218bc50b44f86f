package tcp

import (
	"context"
	"errors"
	"log"
	"net"
	"sync"
)

// Run accepts connections until the context is cancelled, handling each one in a
// separate goroutine. The listener is closed on cancellation, and Run returns only
// after all the handlers are done
func Run(ctx context.Context, sock net.Listener, onConn func(conn net.Conn)) error {
	wg := new(sync.WaitGroup)
	stop := context.AfterFunc(ctx, func() {
		_ = sock.Close()
	})
	defer stop()

	for {
		conn, err := sock.Accept()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				wg.Wait()

				return ctxErr
			}

			if errors.Is(err, net.ErrClosed) {
				wg.Wait()

				return err
			}

			log.Println("error accepting a connection:", err)
			continue
		}

		wg.Add(1)
		go func() {
			onConn(conn)
			wg.Done()
		}()
	}
}
