package spanify

func DefaultBlockPoolConfig() BlockPoolConfig {
	return BlockPoolConfig{
		FreeThresholds: [len(blockSizes)]int{
			256, // 256KB
			64,  // 1MB
			16,  // 4MB
		},
	}
}
