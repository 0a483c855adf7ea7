package utils

import (
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// ServerLoad는 서버 상태 요약입니다
type ServerLoad struct {
	CpuUsage    float64 `json:"cpuUsage"`    // 0-1
	MemoryUsage float64 `json:"memoryUsage"` // 0-1
	Load        float64 `json:"load"`
	Capacity    float64 `json:"capacity"`
	IsHealthy   bool    `json:"isHealthy"`
}

// GetSystemMetrics는 CPU와 메모리 사용률(0-1)을 반환합니다. 측정 실패 시 0을 반환합니다.
func GetSystemMetrics() (float64, float64) {
	var cpuUsage, memoryUsage float64

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		cpuUsage = percents[0] / 100.0
	} else if err != nil {
		Debug("system", "CPU 사용률 측정 실패: %v", err)
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		memoryUsage = vm.UsedPercent / 100.0
	} else {
		Debug("system", "메모리 사용률 측정 실패: %v", err)
	}

	return cpuUsage, memoryUsage
}

// GetServerLoad는 CPU와 메모리 사용률의 가중 평균으로 서버 부하를 계산합니다
func GetServerLoad() ServerLoad {
	cpuUsage, memoryUsage := GetSystemMetrics()
	return CalculateServerLoad(cpuUsage, memoryUsage)
}

// CalculateServerLoad는 사용률로부터 부하, 처리 용량, 건강 상태를 계산합니다
func CalculateServerLoad(cpuUsage, memoryUsage float64) ServerLoad {
	load := (cpuUsage * 0.7) + (memoryUsage * 0.3)

	capacity := 1.0 - load
	if capacity < 0 {
		capacity = 0
	}

	return ServerLoad{
		CpuUsage:    cpuUsage,
		MemoryUsage: memoryUsage,
		Load:        load,
		Capacity:    capacity,
		IsHealthy:   cpuUsage <= 0.9 && memoryUsage <= 0.95,
	}
}
