package device

// Config is the typed configuration store.
// Setters fail closed by returning false.
type Config interface {
	Uint32(Key) uint32
	SetUint32(Key, uint32) bool
	Float32(Key) float32
	SetFloat32(Key, float32) bool
	Bool(Key) bool
	SetBool(Key, bool) bool
	String(Key) string
	SetString(Key, string) bool
	RestoreDefaults() bool
	Save() bool
}

// Measurement provides readings of the load sources.
type Measurement interface {
	ReadRaw() int32
	ReadMeasured() float32
	ReadAdjusted(Source) float32
	Overloaded(Source) bool
	Connected(Source) bool
	InBootloader(Source) bool
	Overloads() []OverloadRecord
	ClearOverloads()
}

// Users is the user and session store.
type Users interface {
	CurrentUser() User
	SetAccess(user User, pass string) bool
	ClearAccess()
	SetPin(user User, oldPin, newPin string) bool
	ResetPin(user User, pin string) bool
}

// System exposes power, clock and maintenance requests.
type System interface {
	Sleeping() bool
	SetTime(epoch uint32) bool
	RequestReboot() bool
	RequestSleep() bool
	RequestBootloader() bool
	SetCommActive()
	StartCalibration() bool
	StopCalibration() bool
	RequestRecovery(FormatTarget)
	RequestUpdate(module int)
	FirmwareVersion(Source) string
	HardwareVersion(Source) string
	UpdateStatus() int32
	// IsDFX tells if the gauge runs in the factory test fixture.
	IsDFX() bool
}

// Tester runs tests and holds their results.
type Tester interface {
	Zero(ZeroOption)
	Start() bool
	Stop() bool
	RunByHost() bool
	SetRunByHost()
	ErrorConditions() bool
	Result(index uint8) float32
	SetUseHostConfig(bool)
	TensionBreak() float32
	CompressionBreak() float32
	NormalReading() float32
	LoadTestConfig(index uint8) bool
	ResetTestConfig(index uint8) bool
	SaveTestConfig(index uint8) bool
}

// Files handles file import and export.
type Files interface {
	ExportInfo(name string) (size uint32, ok bool)
	StartExport()
	NextExportChunk() []byte
	CreateImport(name string) bool
	WriteImport(data []byte) bool
	CloseImport() bool
	ExportData(header bool) []byte
}

// ErrorLog exposes the boot error log.
type ErrorLog interface {
	Codes() []byte
}

// Device aggregates all collaborators used by command handlers.
type Device struct {
	Config      Config
	Measurement Measurement
	Users       Users
	System      System
	Tester      Tester
	Files       Files
	Errors      ErrorLog
}

// ASCIIMode reads the configured text protocol.
// The factory test fixture always speaks binary.
func (d *Device) ASCIIMode() ASCIIMode {
	if d.System != nil && d.System.IsDFX() {
		return ASCIIOff
	}
	return ASCIIMode(d.Config.Uint32(K(ParamASCIIMode)))
}

// Sleeping implements the sleep check of the dispatcher.
func (d *Device) Sleeping() bool {
	return d.System.Sleeping()
}

// CurrentUser implements the session check of the dispatcher.
func (d *Device) CurrentUser() User {
	return d.Users.CurrentUser()
}

// SourceLoad returns the configured test source.
func (d *Device) SourceLoad() Source {
	return Source(d.Config.Uint32(K(ParamSourceLoad)))
}
