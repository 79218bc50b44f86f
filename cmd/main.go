package main

import (
	"context"
	"log"
	"net"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/floordiv/h1state/internal/http1"
	"github.com/floordiv/h1state/internal/server/http"
	"github.com/floordiv/h1state/internal/server/tcp"
)

const (
	network       = "tcp4"
	addr          = "0.0.0.0:8000"
	readDeadline  = 3 * time.Minute
	writeDeadline = 1 * time.Minute
	readBuffer    = 4096
	maxBuffered   = 128 * 1024
)

func main() {
	sock, err := net.Listen(network, addr)
	if err != nil {
		log.Println("error: listen:", err)
		return
	}

	log.Println("Starting on", network, addr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = tcp.Run(ctx, sock, func(conn net.Conn) {
		client := tcp.NewClient(conn, readDeadline, writeDeadline, make([]byte, readBuffer))
		http.NewConn(client, echo, http1.Settings{}, readBuffer, maxBuffered).Serve()
	})
	if err != nil {
		log.Println("error: tcp:", err)
	}
}

// echo responds with the request body
func echo(m *http1.Machine) {
	err := m.ReadBody(func(body []byte) {
		head := "HTTP/1.1 200 OK\r\n" +
			"Content-Type: application/octet-stream\r\n" +
			"Content-Length: " + strconv.Itoa(len(body)) + "\r\n\r\n"
		_ = m.WriteString(head, nil)
		_ = m.Write(body, nil)

		if m.KeepAlive() {
			_ = m.End(nil)
		} else {
			_ = m.Close(nil)
		}
	})
	if err != nil {
		log.Println("error: echo:", err)
	}
}
