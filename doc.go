/*
Package pulsenet simulates networks of stateful modules exchanging binary
pulses.

A network is declared as a list of lines:

	broadcaster -> a, b
	%a -> c
	%b -> c
	&c -> rx

A '%' prefix declares a toggle (flip-flop), '&' an aggregate (conjunction) and
names without prefix are relays. Destinations that are never declared, like rx
above, become relays with no outputs.

Every trigger sends a single low pulse from a virtual button to the entry
module (broadcaster by default), then delivers the pulses it causes in strict
FIFO order until the network settles. The Analyzer uses the periodicity of the
modules feeding a sink to find the first trigger at which the sink receives a
low pulse, without running that many triggers.

The simulation is single threaded: a Network must not be used concurrently.

*/
package pulsenet
