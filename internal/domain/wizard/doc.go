/*
Package wizard implements the guided request form that turns a few clicks
into a chat message.

# Flow

The user first picks an Option (a request type). Depending on the option's
flags the wizard then asks for one or more Items, then one or more
Locations, each listed from the catalog and narrowed by a builtin filter and
a free-text search. Advancing past the last step emits a types.Request and
resets the form.

	step 1  choose option        always
	step 2  choose items         only if option.AskForItem
	step 3  choose locations     only if option.AskForLocation
	step 4  review               only when both flags are false

Steps whose flag is false are skipped as soon as they are reached, without
touching the catalog.

# Layers

Machine is the pure state machine: option, selections, step index, filter
state. Recompute normalizes skipped steps and returns a Directive telling
the host what to fetch and how the advance control reads.

Controller wraps a Machine for concurrent hosts. It fetches through a
Catalog, reconciles results against the current selection, caches builtin
filter values for the process lifetime, discards stale responses, and hands
emitted requests to an Emitter.
*/
package wizard
