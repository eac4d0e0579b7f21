package command

import (
	"github.com/robotalks/gauge.go/pkg/device"
)

// EventPoster wakes the host event worker.
type EventPoster func(bits uint32)

// NewStandardTable builds the gauge command table over dev.
// events may be nil.
func NewStandardTable(dev *device.Device, events EventPoster) *Table {
	h := &handlers{dev: dev, events: events}
	cfg := dev.Config
	sys := dev.System
	return MustNewTable(
		Entry{CodeAppVer, PermAll, h.appVer},
		Entry{CodeDevAddr, PermAll, h.devAddr},
		Entry{CodeSetTime, PermAll, h.setTime},
		Entry{CodeExportFile, PermAll, h.exportFile},
		Entry{CodeImportFile, PermAll, h.importFile},

		Entry{CodeReset, PermAll, request(sys.RequestReboot)},
		Entry{CodeSleep, PermAll, request(sys.RequestSleep)},
		Entry{CodeBoot, PermAll, request(sys.RequestBootloader)},
		Entry{CodeDefaults, PermAll, h.defaults},
		Entry{CodeUserAccess, PermAll, h.userAccess},
		Entry{CodeUserPass, PermAll, h.userPass},
		Entry{CodeCalMode, PermAll, h.calMode},
		Entry{CodeRecovery, PermSuper, h.recovery},
		Entry{CodeUpdateAxM, PermSuper, h.updateAxM},

		Entry{CodeReadRaw, PermAll, h.readRaw},
		Entry{CodeReadTrue, PermAll, h.readTrue},
		Entry{CodeReadUncal, PermAll, h.readUncal},
		Entry{CodeReadMode, PermAll, notImplemented},
		Entry{CodeReadBurst, PermAll, h.readBurst()},
		Entry{CodeLogBurst, PermAll, h.logBurst()},
		Entry{CodeZero, PermAll, h.zero},
		Entry{CodeScaleFactor, PermAll, notImplemented},
		Entry{CodeScaleOffset, PermAll, notImplemented},

		Entry{CodeIdn, PermAll, h.idn},
		Entry{CodeVerFw, PermAll, h.version(sys.FirmwareVersion)},
		Entry{CodeVerHw, PermAll, h.version(sys.HardwareVersion)},
		Entry{CodeLanguage, PermAll, configHandler(cfg, device.ParamLanguage, u8Codec{})},
		Entry{CodeLocaleSep, PermAll, configHandler(cfg, device.ParamLocaleSep, u8Codec{})},
		Entry{CodeModel, PermAll, sourcedHandler(cfg, device.ParamModel, strCodec{}, false)},
		Entry{CodeSerial, PermAll, sourcedHandler(cfg, device.ParamSerial, strCodec{}, false)},
		Entry{CodeCapacity, PermAll, sourcedHandler(cfg, device.ParamCapacity, f32Codec{}, false)},
		Entry{CodeResolution, PermAll, sourcedHandler(cfg, device.ParamResolution, u8Codec{}, true)},
		Entry{CodeUnits, PermAll, h.units},
		Entry{CodeAvlUnits, PermAll, configHandler(cfg, device.ParamAvailableUnits, u32Codec{})},
		Entry{CodeCapUnits, PermAll, sourcedHandler(cfg, device.ParamCapacityUnits, strCodec{}, false)},
		Entry{CodeCalNumPoints, PermAll, globalSourcedHandler(cfg, device.ParamCalNumPoints, u8Codec{})},
		Entry{CodeCalPoint, PermAll, h.calPoint},
		Entry{CodeCalDate, PermAll, globalSourcedHandler(cfg, device.ParamCalDate, u32Codec{})},
		Entry{CodeCalDue, PermAll, globalSourcedHandler(cfg, device.ParamCalDue, u32Codec{})},
		Entry{CodeCalWarn, PermAll, globalSourcedHandler(cfg, device.ParamCalWarn, u32Codec{})},
		Entry{CodeCalUnits, PermAll, sourcedHandler(cfg, device.ParamCalUnits, strCodec{}, false)},
		Entry{CodeOverloadNum, PermAll, h.overloadNum},
		Entry{CodeOverloadRec, PermAll, h.overloadRec},
		Entry{CodePolarity, PermAll, configHandler(cfg, device.ParamPolarity, boolCodec{})},
		Entry{CodeConnSrcs, PermAll, h.connSrcs},
		Entry{CodeUDUUnits, PermAll, configHandler(cfg, device.ParamUDUUnits, strCodec{})},
		Entry{CodeUDUConv, PermAll, configHandler(cfg, device.ParamUDUConv, f32Codec{})},
		Entry{CodeFeatureEn, PermAll, h.featureEn},
		Entry{CodeDispMode, PermAll, configHandler(cfg, device.ParamDispMode, u8Codec{})},
		Entry{CodeDispBrightness, PermAll, configHandler(cfg, device.ParamDispBrightness, u8Codec{})},
		Entry{CodeAutoShutdown, PermAll, configHandler(cfg, device.ParamAutoShutdown, u8Codec{})},
		Entry{CodeAutoDimming, PermAll, configHandler(cfg, device.ParamAutoDimming, u8Codec{})},
		Entry{CodeFilterOption, PermAll, configHandler(cfg, device.ParamFilter, u8Codec{})},
		Entry{CodeZeroOnStart, PermAll, configHandler(cfg, device.ParamZeroOnStart, boolCodec{})},
		Entry{CodeZeroDef, PermAll, configHandler(cfg, device.ParamZeroDef, u8Codec{})},
		Entry{CodeSaveCfg, PermAll, h.saveCfg},

		Entry{CodeTestSource, PermAll, h.testSource},
		Entry{CodeTestStart, PermAll, h.testStart},
		Entry{CodeTestStop, PermAll, h.testStop},
		Entry{CodeTestResult, PermAll, h.testResult},
		Entry{CodeUseGaugeParams, PermAll, h.useGaugeParams},
		Entry{CodeTestLmtEn, PermAll, h.testLmtEn},
		Entry{CodeTestLmtHSP, PermAll, indexedHandler(cfg, device.ParamLimitHigh, f32Codec{})},
		Entry{CodeTestLmtLSP, PermAll, indexedHandler(cfg, device.ParamLimitLow, f32Codec{})},
		Entry{CodeTestLmtNSP, PermAll, indexedHandler(cfg, device.ParamLimitNominal, f32Codec{})},
		Entry{CodeTestLmtBW, PermAll, indexedHandler(cfg, device.ParamLimitBand, f32Codec{})},
		Entry{CodeLoadLmtEn, PermAll, configHandler(cfg, device.ParamLoadLimitEnable, boolCodec{})},
		Entry{CodeLoadLmtTSP, PermAll, configHandler(cfg, device.ParamLoadLimitT, f32Codec{})},
		Entry{CodeLoadLmtCSP, PermAll, configHandler(cfg, device.ParamLoadLimitC, f32Codec{})},
		Entry{CodeLoadAvgEn, PermAll, configHandler(cfg, device.ParamLoadAvgEnable, boolCodec{})},
		Entry{CodeLoadAvgPreload, PermAll, configHandler(cfg, device.ParamLoadAvgPreload, f32Codec{})},
		Entry{CodeLoadAvgTimeout, PermAll, configHandler(cfg, device.ParamLoadAvgTimeout, u32Codec{})},
		Entry{CodePkDetEn, PermAll, configHandler(cfg, device.ParamPeakEnable, boolCodec{})},
		Entry{CodePkDetThreshold, PermAll, configHandler(cfg, device.ParamPeakThreshold, f32Codec{})},
		Entry{CodeBrkDetEn, PermAll, configHandler(cfg, device.ParamBreakEnable, boolCodec{})},
		Entry{CodeBrkDetTrigger, PermAll, configHandler(cfg, device.ParamBreakTrigger, f32Codec{})},
		Entry{CodeBrkDetDrop, PermAll, configHandler(cfg, device.ParamBreakDrop, f32Codec{})},
		Entry{CodeTestCfgStart, PermAll, configHandler(cfg, device.ParamTestCfgStart, u8Codec{})},
		Entry{CodeTestCfgStop, PermAll, configHandler(cfg, device.ParamTestCfgStop, u8Codec{})},
		Entry{CodeTestCfgCurr, PermAll, h.testCfgCurr},

		Entry{CodeEvent, PermAll, notImplemented},
		Entry{CodeEvtMask, PermAll, configHandler(cfg, device.ParamEventMask, u32Codec{})},
	)
}
