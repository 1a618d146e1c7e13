// Package landlock adapts the Linux Landlock LSM to the application's
// kernel port.
//
// Enforcement applies to every OS thread of the process at once, so the
// Go runtime cannot leave an unrestricted thread behind. Once sealed, the
// restriction is irrevocable for the process and all of its descendants.
//
// Requirements:
//   - Linux kernel >= 6.7 (ABI v4, TCP port rules)
//   - Landlock listed in the kernel's lsm= boot parameter
package landlock
