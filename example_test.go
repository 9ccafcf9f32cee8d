package notifier_test

import (
	"context"
	"fmt"
	"time"

	notifier "github.com/e7canasta/notifier-bridge"
)

// waitProduced polls Stats until n envelopes were produced.
func waitProduced(n *notifier.Notifier, want uint64) {
	for n.Stats().Produced < want {
		time.Sleep(time.Millisecond)
	}
}

func ExampleNotifier_StartPush() {
	cfg := notifier.DefaultConfig()
	cfg.Synthetic = notifier.SyntheticConfig{Count: 3}

	n, err := notifier.New(cfg)
	if err != nil {
		panic(err)
	}

	n.StartPush(context.Background(), func(env notifier.Envelope) {
		fmt.Println(env.Color, env.Text)
	})
	waitProduced(n, 4)

	if err := n.Stop(); err != nil {
		panic(err)
	}

	// Output:
	// #2828FF Notifier v2 started
	// #28FF28 #0
	// #28FF28 #1
	// #28FF28 #2
}

func ExampleNotifier_SyncProcessQueue() {
	cfg := notifier.DefaultConfig()
	cfg.Synthetic = notifier.SyntheticConfig{Count: 2}

	n, err := notifier.New(cfg)
	if err != nil {
		panic(err)
	}

	n.StartPull(context.Background())
	waitProduced(n, 3)

	var batch []notifier.Envelope
	n.SyncProcessQueue(&batch)
	for _, env := range batch {
		fmt.Println(env.Seq, env.Text)
	}

	n.SyncProcessQueue(&batch)
	fmt.Println("after second drain:", len(batch))

	_ = n.Stop()

	// Output:
	// 1 Notifier v2 started
	// 2 #0
	// 3 #1
	// after second drain: 3
}

func ExampleVersion() {
	fmt.Println(notifier.Version())
	// Output: 2
}
