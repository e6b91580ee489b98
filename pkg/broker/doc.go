/*
Package broker implements C1-C4: the connection manager, channel manager,
publisher, and subscriber that sit between an agent and RabbitMQ (spec.md
§4.1-§4.4).

Connection handling is adapted from bryk-io's internal amqp session onto a
single exported ConnectionManager: it reconnects lazily, when Get finds
the current connection closed, and watches NotifyBlocked; there is no
notify-close event loop, and topology is declared when Subscriber.Run
starts, not again on reconnect. Exchange/queue/DLX/DLQ topology declaration and the
ack/nack discipline on delivery follow baechuer-real-time-ressys's event
and email service RabbitMQ consumers.
*/
package broker
