// Package shutdown runs registered cleanup hooks once the process is told
// to stop, either by SIGINT/SIGTERM, a cancelled context or Trigger.
// Hooks run newest first under a shared deadline.
package shutdown
