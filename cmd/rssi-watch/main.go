// Command rssi-watch follows a running analyzer over gRPC and prints every
// round it observes.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/Gennadyy7/rssi-analyzer/internal/adapters/console"
	"github.com/Gennadyy7/rssi-analyzer/internal/adapters/grpcapi"
	"github.com/Gennadyy7/rssi-analyzer/internal/core/services/analysis"
)

func main() {
	serverAddr := flag.String("server", "localhost:9000", "rssi-analyzer gRPC address")
	once := flag.Bool("once", false, "Print the current state and exit")
	flag.Parse()

	// 1. Connect to gRPC Server
	conn, err := grpc.NewClient(*serverAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatalf("did not connect: %v", err)
	}
	defer conn.Close()
	client := grpcapi.NewStateServiceClient(conn)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if *once {
		st, err := client.GetState(ctx)
		if err != nil {
			log.Fatalf("GetState: %v", err)
		}
		if err := show(st); err != nil {
			log.Fatalf("render: %v", err)
		}
		return
	}

	// 2. Follow the stream
	stream, err := client.WatchState(ctx)
	if err != nil {
		log.Fatalf("could not create stream: %v", err)
	}
	log.Printf("Watching %s", *serverAddr)

	for {
		st, err := stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) || status.Code(err) == codes.Canceled {
				return
			}
			log.Fatalf("stream: %v", err)
		}
		if err := show(st); err != nil {
			log.Printf("render: %v", err)
		}
	}
}

func show(st *structpb.Struct) error {
	s, err := decode(st)
	if err != nil {
		return err
	}
	out, err := console.Render(s)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(os.Stdout, out)
	return err
}

// decode reverses the server-side Summary to Struct conversion.
func decode(st *structpb.Struct) (analysis.Summary, error) {
	var s analysis.Summary
	data, err := protojson.Marshal(st)
	if err != nil {
		return s, err
	}
	err = json.Unmarshal(data, &s)
	return s, err
}
