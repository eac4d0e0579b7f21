package command

import "fmt"

// Function codes.
const (
	CodeExcBoot byte = 0x0f

	CodeAppVer     byte = 0x01
	CodeDevAddr    byte = 0x02
	CodeSetTime    byte = 0x03
	CodeExportFile byte = 0x04
	CodeImportFile byte = 0x05

	CodeReset      byte = 0x10
	CodeSleep      byte = 0x11
	CodeBoot       byte = 0x12
	CodeDefaults   byte = 0x13
	CodeUserAccess byte = 0x14
	CodeUserPass   byte = 0x15
	CodeCalMode    byte = 0x16
	CodeRecovery   byte = 0x17
	CodeUpdateAxM  byte = 0x18

	CodeReadRaw     byte = 0x20
	CodeReadTrue    byte = 0x21
	CodeReadUncal   byte = 0x22
	CodeReadMode    byte = 0x23
	CodeReadBurst   byte = 0x24
	CodeLogBurst    byte = 0x25
	CodeZero        byte = 0x26
	CodeScaleFactor byte = 0x27
	CodeScaleOffset byte = 0x28

	CodeIdn            byte = 0x30
	CodeVerFw          byte = 0x31
	CodeVerHw          byte = 0x32
	CodeLanguage       byte = 0x33
	CodeLocaleSep      byte = 0x34
	CodeModel          byte = 0x35
	CodeSerial         byte = 0x36
	CodeCapacity       byte = 0x37
	CodeResolution     byte = 0x38
	CodeUnits          byte = 0x39
	CodeAvlUnits       byte = 0x3a
	CodeCapUnits       byte = 0x3b
	CodeCalNumPoints   byte = 0x3c
	CodeCalPoint       byte = 0x3d
	CodeCalDate        byte = 0x3e
	CodeCalDue         byte = 0x3f
	CodeCalWarn        byte = 0x40
	CodeCalUnits       byte = 0x41
	CodeOverloadNum    byte = 0x42
	CodeOverloadRec    byte = 0x43
	CodePolarity       byte = 0x44
	CodeConnSrcs       byte = 0x45
	CodeUDUUnits       byte = 0x46
	CodeUDUConv        byte = 0x47
	CodeFeatureEn      byte = 0x48
	CodeDispMode       byte = 0x49
	CodeDispBrightness byte = 0x4a
	CodeAutoShutdown   byte = 0x4b
	CodeAutoDimming    byte = 0x4c
	CodeFilterOption   byte = 0x4d
	CodeZeroOnStart    byte = 0x4e
	CodeZeroDef        byte = 0x4f
	CodeSaveCfg        byte = 0x50

	CodeTestSource     byte = 0x60
	CodeTestStart      byte = 0x61
	CodeTestStop       byte = 0x62
	CodeTestResult     byte = 0x63
	CodeUseGaugeParams byte = 0x64
	CodeTestLmtEn      byte = 0x65
	CodeTestLmtHSP     byte = 0x66
	CodeTestLmtLSP     byte = 0x67
	CodeTestLmtNSP     byte = 0x68
	CodeTestLmtBW      byte = 0x69
	CodeLoadLmtEn      byte = 0x6a
	CodeLoadLmtTSP     byte = 0x6b
	CodeLoadLmtCSP     byte = 0x6c
	CodeLoadAvgEn      byte = 0x6d
	CodeLoadAvgPreload byte = 0x6e
	CodeLoadAvgTimeout byte = 0x6f
	CodePkDetEn        byte = 0x70
	CodePkDetThreshold byte = 0x71
	CodeBrkDetEn       byte = 0x72
	CodeBrkDetTrigger  byte = 0x73
	CodeBrkDetDrop     byte = 0x74
	CodeTestCfgStart   byte = 0x75
	CodeTestCfgStop    byte = 0x76
	CodeTestCfgCurr    byte = 0x77

	CodeEvent         byte = 0x80
	CodeEvtMask       byte = 0x81
	CodeExportData    byte = 0x82
	CodeExportDataHdr byte = 0x83

	// CodeMax terminates the command table.
	CodeMax byte = 0xff
)

// Application protocol version.
const (
	ProtocolVerMajor byte = 1
	ProtocolVerMinor byte = 2
)

// Selector values of get/set style commands.
const (
	ArgGet     byte = 0x00
	ArgSet     byte = 0x01
	ArgDefault byte = 0x02
)

var codeNames = map[byte]string{
	CodeExcBoot: "EXC_BOOT", CodeAppVer: "APPVER", CodeDevAddr: "DEVADDR",
	CodeSetTime: "SETTIME", CodeExportFile: "EXPORT_FILE", CodeImportFile: "IMPORT_FILE",
	CodeReset: "RESET", CodeSleep: "SLEEP", CodeBoot: "BOOT", CodeDefaults: "DEFAULTS",
	CodeUserAccess: "USERACCESS", CodeUserPass: "USERPASS", CodeCalMode: "CALMODE",
	CodeRecovery: "RECOVERY", CodeUpdateAxM: "UPDATE_AXM",
	CodeReadRaw: "READ_RAW", CodeReadTrue: "READ_TRUE", CodeReadUncal: "READ_UNCAL",
	CodeReadMode: "READ_MODE", CodeReadBurst: "READ_BURST", CodeLogBurst: "LOG_BURST",
	CodeZero: "ZERO", CodeScaleFactor: "SCALE_FACTOR", CodeScaleOffset: "SCALE_OFFSET",
	CodeIdn: "IDN", CodeVerFw: "VER_FW", CodeVerHw: "VER_HW", CodeLanguage: "LANGUAGE",
	CodeLocaleSep: "LOCALE_SEP", CodeModel: "MODEL", CodeSerial: "SERIAL",
	CodeCapacity: "CAPACITY", CodeResolution: "RESOLUTION", CodeUnits: "UNITS",
	CodeAvlUnits: "AVLUNITS", CodeCapUnits: "CAPUNITS", CodeCalNumPoints: "CALNUMPNTS",
	CodeCalPoint: "CALPNT", CodeCalDate: "CALDATE", CodeCalDue: "CALDUE",
	CodeCalWarn: "CALWARN", CodeCalUnits: "CALUNITS", CodeOverloadNum: "OVERLOAD_NUM",
	CodeOverloadRec: "OVERLOAD_REC", CodePolarity: "POLARITY", CodeConnSrcs: "CONNSRCS",
	CodeUDUUnits: "UDU_UNITS", CodeUDUConv: "UDU_CONV", CodeFeatureEn: "FEATURE_EN",
	CodeDispMode: "DISP_MODE", CodeDispBrightness: "DISP_BRIGHTNESS",
	CodeAutoShutdown: "AUTO_SHUTDOWN", CodeAutoDimming: "AUTO_DIMMING",
	CodeFilterOption: "FILTER_OPTION", CodeZeroOnStart: "ZERO_ON_START",
	CodeZeroDef: "ZERO_DEF", CodeSaveCfg: "SAVECFG",
	CodeTestSource: "TEST_SOURCE", CodeTestStart: "TEST_START", CodeTestStop: "TEST_STOP",
	CodeTestResult: "TEST_RESULT", CodeUseGaugeParams: "USE_GAUGEPARAMS",
	CodeTestLmtEn: "TESTLMT_EN", CodeTestLmtHSP: "TESTLMT_HSP", CodeTestLmtLSP: "TESTLMT_LSP",
	CodeTestLmtNSP: "TESTLMT_NSP", CodeTestLmtBW: "TESTLMT_BW", CodeLoadLmtEn: "LOADLMT_EN",
	CodeLoadLmtTSP: "LOADLMT_TSP", CodeLoadLmtCSP: "LOADLMT_CSP", CodeLoadAvgEn: "LOADAVG_EN",
	CodeLoadAvgPreload: "LOADAVG_PRELOAD", CodeLoadAvgTimeout: "LOADAVG_TIMEOUT",
	CodePkDetEn: "PKDET_EN", CodePkDetThreshold: "PKDET_THRESHOLD", CodeBrkDetEn: "BRKDET_EN",
	CodeBrkDetTrigger: "BRKDET_TRIGGER", CodeBrkDetDrop: "BRKDET_DROP",
	CodeTestCfgStart: "TESTCFG_START", CodeTestCfgStop: "TESTCFG_STOP",
	CodeTestCfgCurr: "TESTCFG_CURR", CodeEvent: "EVENT", CodeEvtMask: "EVTMASK",
	CodeExportData: "EXPORT_ADATA", CodeExportDataHdr: "EXPORT_ADATA_H",
}

// CodeName returns the mnemonic of a function code.
func CodeName(code byte) string {
	if name, ok := codeNames[code]; ok {
		return name
	}
	return fmt.Sprintf("0x%02x", code)
}

// CodeByName looks up a function code by its mnemonic.
func CodeByName(name string) (byte, bool) {
	for code, n := range codeNames {
		if n == name {
			return code, true
		}
	}
	return 0, false
}
