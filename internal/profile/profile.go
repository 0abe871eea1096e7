package profile

import (
	"sort"

	"github.com/muurk/autoinstall/internal/messages"
)

// Persisted field names
const (
	FieldNetworkInstall = "network_install"
	FieldMinDeviceBytes = "min_device_bytes"
	FieldDevice         = "device"
	FieldBootLabel      = "boot_label"
	FieldTimeZone       = "time_zone"
	FieldHostname       = "hostname"
	FieldRootPassword   = "root_password"
	FieldUsername       = "username"
	FieldUserPassword   = "user_password"
	FieldSudoGroup      = "sudo_group"
	FieldRestart        = "restart"
)

// Default values of a fresh profile
const (
	DefaultMinDeviceBytes uint64 = 10_000_000_000
	DefaultBootLabel             = "MOOS"
	DefaultTimeZone              = "America/Denver"
	DefaultHostname              = "moos"
	DefaultRootPassword          = "root"
	DefaultUsername              = "main"
	DefaultUserPassword          = "main"
	DefaultSudoGroup             = "wheel"
)

// Profile is the ordered set of operator-adjustable installation settings.
type Profile struct {
	fields []*Field
	byName map[string]*Field
	log    *messages.Log
}

// New creates a profile holding the default value of every field.
// Validation failures from later edits are reported to log.
func New(log *messages.Log) *Profile {
	p := &Profile{
		byName: make(map[string]*Field),
		log:    log,
	}

	p.add(&Field{name: FieldNetworkInstall, label: "network install", kind: KindBool, value: false})
	p.add(&Field{name: FieldMinDeviceBytes, label: "min device bytes", kind: KindInteger, rule: RuleNumeric, value: DefaultMinDeviceBytes})
	p.add(&Field{name: FieldDevice, label: "device", kind: KindString, nullable: true})
	p.add(&Field{name: FieldBootLabel, label: "boot label", kind: KindString, rule: RuleBootLabel, value: DefaultBootLabel})
	p.add(&Field{name: FieldTimeZone, label: "time zone", kind: KindString, value: DefaultTimeZone})
	p.add(&Field{name: FieldHostname, label: "hostname", kind: KindString, rule: RuleHostname, value: DefaultHostname})
	p.add(&Field{name: FieldRootPassword, label: "root password", kind: KindString, rule: RulePassword, secret: true, value: DefaultRootPassword})
	p.add(&Field{name: FieldUsername, label: "username", kind: KindString, rule: RuleName, value: DefaultUsername})
	p.add(&Field{name: FieldUserPassword, label: "user password", kind: KindString, rule: RulePassword, secret: true, value: DefaultUserPassword})
	p.add(&Field{name: FieldSudoGroup, label: "sudo group", kind: KindString, rule: RuleName, value: DefaultSudoGroup})
	p.add(&Field{name: FieldRestart, label: "restart", kind: KindBool, value: true})

	return p
}

func (p *Profile) add(f *Field) {
	f.log = p.log
	p.fields = append(p.fields, f)
	p.byName[f.name] = f
}

// Fields returns the fields in display order.
func (p *Profile) Fields() []*Field {
	out := make([]*Field, len(p.fields))
	copy(out, p.fields)
	return out
}

// Field looks a field up by its persisted name.
func (p *Profile) Field(name string) (*Field, error) {
	f, ok := p.byName[name]
	if !ok {
		return nil, unknownField(name)
	}
	return f, nil
}

// Names returns every persisted field name in display order.
func Names() []string {
	return []string{
		FieldNetworkInstall, FieldMinDeviceBytes, FieldDevice, FieldBootLabel,
		FieldTimeZone, FieldHostname, FieldRootPassword, FieldUsername,
		FieldUserPassword, FieldSudoGroup, FieldRestart,
	}
}

// Typed accessors

func (p *Profile) NetworkInstall() *Field { return p.byName[FieldNetworkInstall] }
func (p *Profile) MinDeviceBytes() *Field { return p.byName[FieldMinDeviceBytes] }
func (p *Profile) Device() *Field         { return p.byName[FieldDevice] }
func (p *Profile) BootLabel() *Field      { return p.byName[FieldBootLabel] }
func (p *Profile) TimeZone() *Field       { return p.byName[FieldTimeZone] }
func (p *Profile) Hostname() *Field       { return p.byName[FieldHostname] }
func (p *Profile) RootPassword() *Field   { return p.byName[FieldRootPassword] }
func (p *Profile) Username() *Field       { return p.byName[FieldUsername] }
func (p *Profile) UserPassword() *Field   { return p.byName[FieldUserPassword] }
func (p *Profile) SudoGroup() *Field      { return p.byName[FieldSudoGroup] }
func (p *Profile) Restart() *Field        { return p.byName[FieldRestart] }

// ToMap exports the profile as a flat name to value mapping.
func (p *Profile) ToMap() map[string]any {
	m := make(map[string]any, len(p.fields))
	for _, f := range p.fields {
		m[f.name] = f.Get()
	}
	return m
}

// FromMap builds a default profile and overlays every entry of m. Invalid
// values and unknown names are reported as warnings and never abort the
// load. Keys are applied in field order, unknown keys last in sorted order.
func FromMap(log *messages.Log, m map[string]any) *Profile {
	p := New(log)

	var unknown []string
	for key := range m {
		if _, ok := p.byName[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)

	for _, f := range p.fields {
		if value, ok := m[f.name]; ok {
			p.overlay(f.name, value)
		}
	}
	for _, key := range unknown {
		p.overlay(key, m[key])
	}
	return p
}

// overlay applies one persisted entry, keeping the current value when it
// cannot be applied.
func (p *Profile) overlay(key string, value any) {
	f, ok := p.byName[key]
	if !ok {
		p.log.Warningf("Unrecognized field in profile: %s", key)
		return
	}
	if !f.SetValue(value) {
		p.log.Warningf("Keeping the default %s; the profile value %q is invalid", f.label, candidateText(value))
	}
}
