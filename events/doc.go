// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package events fans poll mutations out to external consumers.

# Publishers

  - AMQPPublisher: JSON messages on a durable RabbitMQ queue
  - Nop: used when no broker is configured
  - Multi: publishes to several publishers

Connect with retries and declare the queue:

	pub, err := events.DialAMQP(cfg.AMQPURL, cfg.AMQPQueue)

OpenAMQP dials one publisher per queue and wraps several in a Multi:

	pub := events.OpenAMQP(cfg.AMQPURL, cfg.AMQPQueues())

# Dispatching

A Dispatcher registers as a store observer and publishes on its own
goroutine so requests never wait on the broker:

	d := events.NewDispatcher(pub)
	s := store.New(polls, store.WithObserver(d.Observe))

Publish failures are logged and dropped. Message bodies look like:

	{"type":"poll.voted","poll":{...},"at":"2025-01-02T03:04:05Z"}
*/
package events
