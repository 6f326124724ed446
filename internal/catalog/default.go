package catalog

import "github.com/axiomframework/axiomguard/internal/model"

// defaultDescriptors is the built-in classification table. Domain and
// category are independent axes: most Network capabilities reach
// remote services, but peer discovery and reachability run on-device.
var defaultDescriptors = []Descriptor{
	// UI — presentation-adjacent device features.
	{ID: "HapticFeedbackCapability", Category: model.Local, Domain: model.DomainUI},
	{ID: "ClipboardCapability", Category: model.Local, Domain: model.DomainUI},
	{ID: "NotificationCapability", Category: model.Local, Domain: model.DomainUI},
	{ID: "AppearanceCapability", Category: model.Local, Domain: model.DomainUI},
	{ID: "WindowSceneCapability", Category: model.Local, Domain: model.DomainUI},
	{ID: "StatusBarCapability", Category: model.Local, Domain: model.DomainUI},
	{ID: "KeyboardCapability", Category: model.Local, Domain: model.DomainUI},
	{ID: "GestureRecognitionCapability", Category: model.Local, Domain: model.DomainUI},
	{ID: "AccessibilityCapability", Category: model.Local, Domain: model.DomainUI},
	{ID: "ScreenshotCapability", Category: model.Local, Domain: model.DomainUI},

	// Intelligence — ML and language features. Speech recognition and
	// translation still route through services; see defaultMigrations.
	{ID: "CoreMLCapability", Category: model.Local, Domain: model.DomainIntelligence},
	{ID: "VisionCapability", Category: model.Local, Domain: model.DomainIntelligence},
	{ID: "NaturalLanguageCapability", Category: model.Local, Domain: model.DomainIntelligence},
	{ID: "SoundAnalysisCapability", Category: model.Local, Domain: model.DomainIntelligence},
	{ID: "TextRecognitionCapability", Category: model.Local, Domain: model.DomainIntelligence},
	{ID: "ImageClassificationCapability", Category: model.Local, Domain: model.DomainIntelligence},
	{ID: "ObjectDetectionCapability", Category: model.Local, Domain: model.DomainIntelligence},
	{ID: "SentimentAnalysisCapability", Category: model.Local, Domain: model.DomainIntelligence},
	{ID: "SpeechRecognitionCapability", Category: model.ExternalService, Domain: model.DomainIntelligence},
	{ID: "TranslationCapability", Category: model.ExternalService, Domain: model.DomainIntelligence},

	// System — device hardware and OS services.
	{ID: "CameraCapability", Category: model.Local, Domain: model.DomainSystem},
	{ID: "MicrophoneCapability", Category: model.Local, Domain: model.DomainSystem},
	{ID: "LocationCapability", Category: model.Local, Domain: model.DomainSystem},
	{ID: "MotionSensorCapability", Category: model.Local, Domain: model.DomainSystem},
	{ID: "BiometricAuthCapability", Category: model.Local, Domain: model.DomainSystem},
	{ID: "ContactsCapability", Category: model.Local, Domain: model.DomainSystem},
	{ID: "CalendarCapability", Category: model.Local, Domain: model.DomainSystem},
	{ID: "RemindersCapability", Category: model.Local, Domain: model.DomainSystem},
	{ID: "PhotoLibraryCapability", Category: model.Local, Domain: model.DomainSystem},
	{ID: "HealthDataCapability", Category: model.Local, Domain: model.DomainSystem},
	{ID: "BatteryStatusCapability", Category: model.Local, Domain: model.DomainSystem},
	{ID: "DeviceInfoCapability", Category: model.Local, Domain: model.DomainSystem},
	{ID: "BackgroundTaskCapability", Category: model.Local, Domain: model.DomainSystem},
	{ID: "ProcessInfoCapability", Category: model.Local, Domain: model.DomainSystem},
	{ID: "NFCReaderCapability", Category: model.Local, Domain: model.DomainSystem},

	// Storage — on-device persistence.
	{ID: "FileSystemCapability", Category: model.Local, Domain: model.DomainStorage},
	{ID: "UserDefaultsCapability", Category: model.Local, Domain: model.DomainStorage},
	{ID: "KeychainCapability", Category: model.Local, Domain: model.DomainStorage},
	{ID: "CoreDataCapability", Category: model.Local, Domain: model.DomainStorage},
	{ID: "SQLiteCapability", Category: model.Local, Domain: model.DomainStorage},
	{ID: "CacheStorageCapability", Category: model.Local, Domain: model.DomainStorage},
	{ID: "SecureEnclaveCapability", Category: model.Local, Domain: model.DomainStorage},
	{ID: "DocumentPickerCapability", Category: model.Local, Domain: model.DomainStorage},
	{ID: "TemporaryDirectoryCapability", Category: model.Local, Domain: model.DomainStorage},
	{ID: "BundleResourceCapability", Category: model.Local, Domain: model.DomainStorage},

	// Data — in-process transformation pipelines. Analytics buffers
	// locally today but delivers remotely; see defaultMigrations.
	{ID: "JSONCodingCapability", Category: model.Local, Domain: model.DomainData},
	{ID: "CompressionCapability", Category: model.Local, Domain: model.DomainData},
	{ID: "EncryptionCapability", Category: model.Local, Domain: model.DomainData},
	{ID: "DataTransformCapability", Category: model.Local, Domain: model.DomainData},
	{ID: "ImageProcessingCapability", Category: model.Local, Domain: model.DomainData},
	{ID: "VideoProcessingCapability", Category: model.Local, Domain: model.DomainData},
	{ID: "AudioProcessingCapability", Category: model.Local, Domain: model.DomainData},
	{ID: "PDFGenerationCapability", Category: model.Local, Domain: model.DomainData},
	{ID: "BarcodeGenerationCapability", Category: model.Local, Domain: model.DomainData},
	{ID: "HashingCapability", Category: model.Local, Domain: model.DomainData},
	{ID: "AnalyticsCapability", Category: model.Local, Domain: model.DomainData},

	// Network — transport. Peer-to-peer discovery and reachability
	// are device-side; everything else crosses the network edge.
	{ID: "HTTPClientCapability", Category: model.ExternalService, Domain: model.DomainNetwork},
	{ID: "WebSocketCapability", Category: model.ExternalService, Domain: model.DomainNetwork},
	{ID: "GraphQLClientCapability", Category: model.ExternalService, Domain: model.DomainNetwork},
	{ID: "RESTClientCapability", Category: model.ExternalService, Domain: model.DomainNetwork},
	{ID: "ServerSentEventsCapability", Category: model.ExternalService, Domain: model.DomainNetwork},
	{ID: "FileDownloadCapability", Category: model.ExternalService, Domain: model.DomainNetwork},
	{ID: "FileUploadCapability", Category: model.ExternalService, Domain: model.DomainNetwork},
	{ID: "NetworkDiagnosticsCapability", Category: model.ExternalService, Domain: model.DomainNetwork},
	{ID: "CertificatePinningCapability", Category: model.ExternalService, Domain: model.DomainNetwork},
	{ID: "MultipeerCapability", Category: model.Local, Domain: model.DomainNetwork},
	{ID: "BonjourDiscoveryCapability", Category: model.Local, Domain: model.DomainNetwork},
	{ID: "NetworkReachabilityCapability", Category: model.Local, Domain: model.DomainNetwork},

	// Cloud — hosted services.
	{ID: "CloudSyncCapability", Category: model.ExternalService, Domain: model.DomainCloud},
	{ID: "CloudDocumentsCapability", Category: model.ExternalService, Domain: model.DomainCloud},
	{ID: "CloudBackupCapability", Category: model.ExternalService, Domain: model.DomainCloud},
	{ID: "RemoteConfigCapability", Category: model.ExternalService, Domain: model.DomainCloud},
	{ID: "PushNotificationCapability", Category: model.ExternalService, Domain: model.DomainCloud},
	{ID: "CrashReportingCapability", Category: model.ExternalService, Domain: model.DomainCloud},
	{ID: "RemoteLoggingCapability", Category: model.ExternalService, Domain: model.DomainCloud},
	{ID: "FeatureFlagCapability", Category: model.ExternalService, Domain: model.DomainCloud},
	{ID: "CDNAssetCapability", Category: model.ExternalService, Domain: model.DomainCloud},
	{ID: "CloudFunctionsCapability", Category: model.ExternalService, Domain: model.DomainCloud},
	{ID: "IdentityProviderCapability", Category: model.ExternalService, Domain: model.DomainCloud},
	{ID: "ReceiptValidationCapability", Category: model.ExternalService, Domain: model.DomainCloud},

	// Spatial — AR and geography. Tracking runs on-device; geocoding,
	// map tiles and anchor sharing are service-backed.
	{ID: "ARSessionCapability", Category: model.Local, Domain: model.DomainSpatial},
	{ID: "LiDARScanCapability", Category: model.Local, Domain: model.DomainSpatial},
	{ID: "SceneReconstructionCapability", Category: model.Local, Domain: model.DomainSpatial},
	{ID: "WorldTrackingCapability", Category: model.Local, Domain: model.DomainSpatial},
	{ID: "RoomPlanCapability", Category: model.Local, Domain: model.DomainSpatial},
	{ID: "GeocodingCapability", Category: model.ExternalService, Domain: model.DomainSpatial},
	{ID: "MapTileCapability", Category: model.ExternalService, Domain: model.DomainSpatial},
	{ID: "SharedAnchorCapability", Category: model.ExternalService, Domain: model.DomainSpatial},
}

// defaultMigrations is the reclassification backlog. From-categories
// must match the table above; construction verifies that.
var defaultMigrations = []model.Migration{
	{
		Capability: "SpeechRecognitionCapability",
		From:       model.ExternalService,
		To:         model.Local,
		Reason:     "on-device recognizer replaces the server-backed path",
	},
	{
		Capability: "TranslationCapability",
		From:       model.ExternalService,
		To:         model.Local,
		Reason:     "bundled translation models remove the service round-trip",
	},
	{
		Capability: "GeocodingCapability",
		From:       model.ExternalService,
		To:         model.Local,
		Reason:     "offline reverse-geocoding database ships with the app",
	},
	{
		Capability: "ReceiptValidationCapability",
		From:       model.ExternalService,
		To:         model.Local,
		Reason:     "local receipt parsing replaces the validation endpoint",
	},
	{
		Capability: "NetworkDiagnosticsCapability",
		From:       model.ExternalService,
		To:         model.Local,
		Reason:     "path monitor covers diagnostics without remote probes",
	},
	{
		Capability: "AnalyticsCapability",
		From:       model.Local,
		To:         model.ExternalService,
		Reason:     "event delivery goes to the collector service, not the local buffer",
	},
}
