// Package pm implements the power-management callback protocol.
//
// The privileged PM firmware informs masters about asynchronous events by
// writing a callback payload into the master's IPI request buffer and then
// raising an IPI addressed to that master:
//
//	| Event       | Word0              | Word1  | Word2   | Word3   | Word4   |
//	|-------------|--------------------|--------|---------|---------|---------|
//	| Acknowledge | PM_ACKNOWLEDGE_CB  | nodeId | status  | opPoint |         |
//	| Notify      | PM_NOTIFY_CB       | nodeId | event   | opPoint |         |
//	| InitSuspend | PM_INIT_SUSPEND_CB | reason | latency | state   | timeout |
//
// The buffer write always completes before the interrupt is raised. Delivery
// is fire-and-forget: nothing waits for the master, and a master that is not
// listening loses the interrupt.
package pm
