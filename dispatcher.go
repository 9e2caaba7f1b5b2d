/************************************************************************************
 *
 * nova, a lightweight client SDK for chat-platform REST & Gateway APIs
 *
 * SPDX-License-Identifier: BSD-3-Clause
 *
 * Copyright 2025 The Nova Authors
 *
 * Licensed under the BSD 3-Clause License.
 * See the LICENSE file for details.
 *
 ************************************************************************************/

package nova

import (
	"os"
	"runtime/debug"
	"sync"
)

/*****************************
 *   EventhandlersManager
 *****************************/

// eventhandlersManager defines the interface for managing event handlers of a specific event type.
//
// Implementations must support adding handlers and dispatching raw JSON event data to those handlers.
type eventhandlersManager interface {
	// handleEvent unmarshals the raw JSON data and calls all registered handlers.
	handleEvent(cache CacheManager, shardID int, buf []byte)
	// addHandler adds a new handler function for the event type.
	addHandler(handler any)
}

/*****************************
 *        dispatcher
 *****************************/

// dispatcher manages registration of event handlers and dispatching of events.
//
// It stores handlers by event name string and invokes the correct handlers for incoming events.
//
// WARNING:
//   - This implementation is not fully thread-safe for handler registration. You must register
//     all handlers sequentially before starting event dispatching (usually at startup).
//   - Dispatching handlers is done asynchronously in separate goroutines for each event.
type dispatcher struct {
	logger           Logger
	cacheManager     CacheManager
	workerPool       WorkerPool
	handlersManagers map[string]eventhandlersManager
	mu               sync.RWMutex
}

// newDispatcher creates a new dispatcher instance.
//
// If logger is nil, it creates a default logger that writes to os.Stdout with info-level logging.
func newDispatcher(logger Logger, workerPool WorkerPool, cacheManager CacheManager) *dispatcher {
	if logger == nil {
		logger = NewDefaultLogger(os.Stdout, LogLevelInfoLevel)
	}
	if workerPool == nil {
		workerPool = NewDefaultWorkerPool(logger)
	}
	d := &dispatcher{
		logger:           logger,
		workerPool:       workerPool,
		cacheManager:     cacheManager,
		handlersManagers: make(map[string]eventhandlersManager, 20),
	}

	// Register some necessary events for caching
	d.handlersManagers["READY"] = &readyHandlers{logger: logger}
	d.handlersManagers["GUILD_CREATE"] = &guildCreateHandlers{logger: logger}

	return d
}

/*****************************
 *     Dispatch Event
 *****************************/

// dispatch sends raw event JSON data to all registered handlers for that event name.
//
// The eventName must exactly match the Discord event string (e.g., "MESSAGE_CREATE").
//
// This method submits each dispatch to the worker pool to avoid blocking the main event loop;
// if the pool does not accept the task, the event is dropped and a warning is logged.
func (d *dispatcher) dispatch(shardID int, eventName string, data []byte) {
	d.logger.Debug("Event '" + eventName + "' dispatched")
	if !d.workerPool.Submit(func() {
		defer func() {
			if r := recover(); r != nil {
				d.logger.WithField("event", eventName).
					WithField("shard_id", shardID).
					WithField("panic", r).
					WithField("stack", string(debug.Stack())).
					Error("Recovered from panic while handling event")
			}
		}()

		d.mu.RLock()
		hm, ok := d.handlersManagers[eventName]
		d.mu.RUnlock()

		if ok {
			hm.handleEvent(d.cacheManager, shardID, data)
		}
	}) {
		d.logger.Warn("Dispatcher: dropped event '" + eventName + "' due to full queue")
	}
}

/*****************************
 *      Register Handlers
 *****************************/

// OnMessageCreate registers a handler function for 'MESSAGE_CREATE' events.
//
// Note:
//   - This method is thread-safe via internal locking.
//   - However, it is strongly recommended to register all event handlers sequentially during startup,
//     before starting event dispatching, to avoid runtime mutations and ensure stable configuration.
//   - Handlers are called sequentially when dispatching in the order they were added.
func (d *dispatcher) OnMessageCreate(h func(MessageCreateEvent)) {
	const key = "MESSAGE_CREATE" // event name
	d.logger.Debug(key + " event handler registered")

	d.mu.Lock()
	defer d.mu.Unlock()

	hm, ok := d.handlersManagers[key]
	if !ok {
		hm = &messageCreateHandlers{logger: d.logger}
		d.handlersManagers[key] = hm
	}
	hm.addHandler(h)
}

// OnMessageDelete registers a handler function for 'MESSAGE_DELETE' events.
//
// Note:
//   - This method is thread-safe via internal locking.
//   - However, it is strongly recommended to register all event handlers sequentially during startup,
//     before starting event dispatching, to avoid runtime mutations and ensure stable configuration.
//   - Handlers are called sequentially when dispatching in the order they were added.
func (d *dispatcher) OnMessageDelete(h func(MessageDeleteEvent)) {
	const key = "MESSAGE_DELETE" // event name
	d.logger.Debug(key + " event handler registered")

	d.mu.Lock()
	defer d.mu.Unlock()

	hm, ok := d.handlersManagers[key]
	if !ok {
		hm = &messageDeleteHandlers{logger: d.logger}
		d.handlersManagers[key] = hm
	}
	hm.addHandler(h)
}

// OnMessageUpdate registers a handler function for 'MESSAGE_UPDATE' events.
//
// Note:
//   - This method is thread-safe via internal locking.
//   - However, it is strongly recommended to register all event handlers sequentially during startup,
//     before starting event dispatching, to avoid runtime mutations and ensure stable configuration.
//   - Handlers are called sequentially when dispatching in the order they were added.
func (d *dispatcher) OnMessageUpdate(h func(MessageUpdateEvent)) {
	const key = "MESSAGE_UPDATE" // event name
	d.logger.Debug(key + " event handler registered")

	d.mu.Lock()
	defer d.mu.Unlock()

	hm, ok := d.handlersManagers[key]
	if !ok {
		hm = &messageUpdateHandlers{logger: d.logger}
		d.handlersManagers[key] = hm
	}
	hm.addHandler(h)
}

// OnInteractionCreate registers a handler function for 'INTERACTION_CREATE' events.
//
// Note:
//   - This method is thread-safe via internal locking.
//   - However, it is strongly recommended to register all event handlers sequentially during startup,
//     before starting event dispatching, to avoid runtime mutations and ensure stable configuration.
//   - Handlers are called sequentially when dispatching in the order they were added.
func (d *dispatcher) OnInteractionCreate(h func(InteractionCreateEvent)) {
	const key = "INTERACTION_CREATE" // event name
	d.logger.Debug(key + " event handler registered")

	d.mu.Lock()
	defer d.mu.Unlock()

	hm, ok := d.handlersManagers[key]
	if !ok {
		hm = &interactionCreateHandlers{logger: d.logger}
		d.handlersManagers[key] = hm
	}
	hm.addHandler(h)
}

// OnVoiceStateUpdate registers a handler function for 'VOICE_STATE_UPDATE' events.
//
// Note:
//   - This method is thread-safe via internal locking.
//   - However, it is strongly recommended to register all event handlers sequentially during startup,
//     before starting event dispatching, to avoid runtime mutations and ensure stable configuration.
//   - Handlers are called sequentially when dispatching in the order they were added.
func (d *dispatcher) OnVoiceStateUpdate(h func(VoiceStateUpdateEvent)) {
	const key = "VOICE_STATE_UPDATE" // event name
	d.logger.Debug(key + " event handler registered")

	d.mu.Lock()
	defer d.mu.Unlock()

	hm, ok := d.handlersManagers[key]
	if !ok {
		hm = &voiceStateUpdateHandlers{logger: d.logger}
		d.handlersManagers[key] = hm
	}
	hm.addHandler(h)
}

// TODO: Add other OnXXX methods to register handlers for additional Discord events.
