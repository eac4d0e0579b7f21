package device

import "fmt"

// Param identifies a configuration parameter.
type Param int

// Parameters.
const (
	ParamASCIIMode Param = iota
	ParamProgrammed
	ParamEventMask
	ParamDataComEnable
	ParamDataComTime
	ParamDataLogEnable
	ParamDataLogTime
	ParamSourceLoad
	ParamLanguage
	ParamLocaleSep
	ParamModel
	ParamSerial
	ParamCapacity
	ParamResolution
	ParamUnits
	ParamAvailableUnits
	ParamCapacityUnits
	ParamCalNumPoints
	ParamCalPoint
	ParamCalDate
	ParamCalDue
	ParamCalWarn
	ParamCalUnits
	ParamPolarity
	ParamUDUUnits
	ParamUDUConv
	ParamBuzzer
	ParamHideMeas
	ParamLockHome
	ParamDispMode
	ParamDispBrightness
	ParamAutoShutdown
	ParamAutoDimming
	ParamFilter
	ParamZeroOnStart
	ParamZeroDef
	ParamLimitEnable
	ParamLimitMethod
	ParamLimitHigh
	ParamLimitLow
	ParamLimitNominal
	ParamLimitBand
	ParamLoadLimitEnable
	ParamLoadLimitT
	ParamLoadLimitC
	ParamLoadAvgEnable
	ParamLoadAvgPreload
	ParamLoadAvgTimeout
	ParamPeakEnable
	ParamPeakThreshold
	ParamBreakEnable
	ParamBreakTrigger
	ParamBreakDrop
	ParamTestCfgIdx
	ParamTestCfgStart
	ParamTestCfgStop

	NumParams
)

// Sizes of indexed parameters.
const (
	NumResults   = 8
	NumCalPoints = 10
	NumTestCfgs  = 10
)

// Kind is the value type of a parameter.
type Kind int

// Kinds.
const (
	KindBool Kind = iota
	KindUint32
	KindFloat32
	KindString
)

// Key addresses one value of a parameter.
type Key struct {
	Param Param
	Index uint8
}

// K returns the key of a scalar parameter.
func K(p Param) Key {
	return Key{Param: p}
}

// At returns the key of an indexed parameter.
func (p Param) At(index uint8) Key {
	return Key{Param: p, Index: index}
}

// Of returns the key of a per-source parameter.
func (p Param) Of(s Source) Key {
	return Key{Param: p, Index: s.Offset()}
}

// String implements fmt.Stringer.
func (k Key) String() string {
	spec := Spec(k.Param)
	if spec.Count > 1 {
		return fmt.Sprintf("%s.%d", spec.Name, k.Index)
	}
	return spec.Name
}

// ParamSpec describes the type, default and range of a parameter.
type ParamSpec struct {
	Name  string
	Kind  Kind
	Count int

	Bool    bool
	Uint32  uint32
	Float32 float32
	String  string

	Min, Max float64
	MaxLen   int
}

// Valid tells if the index is within the parameter.
func (s *ParamSpec) Valid(index uint8) bool {
	return int(index) < s.Count
}

// InRange checks a numeric value.
func (s *ParamSpec) InRange(v float64) bool {
	if s.Min == 0 && s.Max == 0 {
		return true
	}
	return v >= s.Min && v <= s.Max
}

func boolParam(name string, def bool) ParamSpec {
	return ParamSpec{Name: name, Kind: KindBool, Count: 1, Bool: def}
}

func uintParam(name string, def uint32, min, max float64) ParamSpec {
	return ParamSpec{Name: name, Kind: KindUint32, Count: 1, Uint32: def, Min: min, Max: max}
}

func floatParam(name string, def float32, min, max float64) ParamSpec {
	return ParamSpec{Name: name, Kind: KindFloat32, Count: 1, Float32: def, Min: min, Max: max}
}

func strParam(name, def string, maxLen int) ParamSpec {
	return ParamSpec{Name: name, Kind: KindString, Count: 1, String: def, MaxLen: maxLen}
}

func indexed(count int, s ParamSpec) ParamSpec {
	s.Count = count
	return s
}

var paramSpecs = [NumParams]ParamSpec{
	ParamASCIIMode:       uintParam("ascii_mode", uint32(ASCIIOff), 0, float64(ASCIIDF2O)),
	ParamProgrammed:      boolParam("programmed", true),
	ParamEventMask:       uintParam("event_mask", 0x37f, 0, 0xffffffff),
	ParamDataComEnable:   boolParam("data_com_enable", false),
	ParamDataComTime:     uintParam("data_com_time", 100, 10, 60000),
	ParamDataLogEnable:   boolParam("data_log_enable", false),
	ParamDataLogTime:     uintParam("data_log_time", 1000, 10, 3600000),
	ParamSourceLoad:      uintParam("source_load", uint32(SourcePrim), float64(SourcePrim), float64(SourceAux2)),
	ParamLanguage:        uintParam("language", 0, 0, 15),
	ParamLocaleSep:       uintParam("locale_sep", 0, 0, 1),
	ParamModel:           indexed(NumSources, strParam("model", "FG-500", 15)),
	ParamSerial:          indexed(NumSources, strParam("serial", "", 15)),
	ParamCapacity:        indexed(NumSources, floatParam("capacity", 500, 0, 1e6)),
	ParamResolution:      indexed(NumSources, uintParam("resolution", 2, 0, 5)),
	ParamUnits:           uintParam("units", 0, 0, float64(len(forceUnits)-1)),
	ParamAvailableUnits:  uintParam("available_units", 0x7f, 1, 0x7f),
	ParamCapacityUnits:   indexed(NumSources, strParam("capacity_units", "lbf", 7)),
	ParamCalNumPoints:    uintParam("cal_num_points", 5, 1, NumCalPoints),
	ParamCalPoint:        indexed(NumCalPoints, floatParam("cal_point", 0, -1e6, 1e6)),
	ParamCalDate:         uintParam("cal_date", 0, 0, 0),
	ParamCalDue:          uintParam("cal_due", 0, 0, 0),
	ParamCalWarn:         uintParam("cal_warn", 30, 0, 365),
	ParamCalUnits:        indexed(NumSources, strParam("cal_units", "lbf", 7)),
	ParamPolarity:        boolParam("polarity", false),
	ParamUDUUnits:        strParam("udu_units", "UDU", 7),
	ParamUDUConv:         floatParam("udu_conv", 1, 1e-6, 1e6),
	ParamBuzzer:          boolParam("buzzer", true),
	ParamHideMeas:        boolParam("hide_meas", false),
	ParamLockHome:        boolParam("lock_home", false),
	ParamDispMode:        uintParam("disp_mode", 0, 0, 3),
	ParamDispBrightness:  uintParam("disp_brightness", 80, 0, 100),
	ParamAutoShutdown:    uintParam("auto_shutdown", 10, 0, 120),
	ParamAutoDimming:     uintParam("auto_dimming", 5, 0, 60),
	ParamFilter:          uintParam("filter", 0, 0, 7),
	ParamZeroOnStart:     boolParam("zero_on_start", false),
	ParamZeroDef:         uintParam("zero_def", uint32(ZeroAll), float64(ZeroLoad), float64(ZeroExtensionResults)),
	ParamLimitEnable:     indexed(NumResults, boolParam("limit_enable", false)),
	ParamLimitMethod:     indexed(NumResults, uintParam("limit_method", 0, 0, 2)),
	ParamLimitHigh:       indexed(NumResults, floatParam("limit_high", 0, -1e6, 1e6)),
	ParamLimitLow:        indexed(NumResults, floatParam("limit_low", 0, -1e6, 1e6)),
	ParamLimitNominal:    indexed(NumResults, floatParam("limit_nominal", 0, -1e6, 1e6)),
	ParamLimitBand:       indexed(NumResults, floatParam("limit_band", 0, 0, 1e6)),
	ParamLoadLimitEnable: boolParam("load_limit_enable", false),
	ParamLoadLimitT:      floatParam("load_limit_t", 0, 0, 1e6),
	ParamLoadLimitC:      floatParam("load_limit_c", 0, 0, 1e6),
	ParamLoadAvgEnable:   boolParam("load_avg_enable", false),
	ParamLoadAvgPreload:  floatParam("load_avg_preload", 0, 0, 1e6),
	ParamLoadAvgTimeout:  uintParam("load_avg_timeout", 10, 1, 600),
	ParamPeakEnable:      boolParam("peak_enable", false),
	ParamPeakThreshold:   floatParam("peak_threshold", 0, 0, 1e6),
	ParamBreakEnable:     boolParam("break_enable", false),
	ParamBreakTrigger:    floatParam("break_trigger", 0, 0, 1e6),
	ParamBreakDrop:       floatParam("break_drop", 50, 0, 100),
	ParamTestCfgIdx:      uintParam("test_cfg_idx", 0, 0, NumTestCfgs-1),
	ParamTestCfgStart:    uintParam("test_cfg_start", 0, 0, 3),
	ParamTestCfgStop:     uintParam("test_cfg_stop", 0, 0, 3),
}

// Spec returns the description of a parameter.
func Spec(p Param) *ParamSpec {
	return &paramSpecs[p]
}
