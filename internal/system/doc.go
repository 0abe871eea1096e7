// Package system queries the host for the facts the profile editor offers
// as choices: candidate block devices, their partitions and the list of
// valid time zones.
//
// Every query shells out through a Runner so tests can substitute canned
// command output:
//
//	host := system.NewHost(system.NewExecRunner(logger), log)
//	devices, err := host.Devices(ctx, minBytes)
//
// The commands used are:
//
//   - lsblk --bytes --nodeps --output path,size,rm,ro,pttype,ptuuid
//   - lsblk --noheadings --output path <device>
//   - timedatectl list-timezones --no-pager
package system
